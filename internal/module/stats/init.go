package stats

import (
	"log/slog"

	"club-activity-system/internal/global/logger"
)

var log *slog.Logger

type ModuleStats struct{}

func (m *ModuleStats) GetName() string {
	return "Stats"
}

func (m *ModuleStats) Init() {
	log = logger.New("Stats")
}

func selfInit() {
	m := &ModuleStats{}
	m.Init()
}
