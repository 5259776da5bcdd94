package club

import (
	"log/slog"

	"club-activity-system/internal/global/logger"
)

var log *slog.Logger

type ModuleClub struct{}

func (m *ModuleClub) GetName() string {
	return "Club"
}

func (m *ModuleClub) Init() {
	log = logger.New("Club")
}

func selfInit() {
	m := &ModuleClub{}
	m.Init()
}
