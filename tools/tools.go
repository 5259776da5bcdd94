package tools

import "golang.org/x/crypto/bcrypt"

func PanicOnErr(err error) {
	if err != nil {
		panic(err)
	}
}

// PasswordEncrypt 使用 bcrypt 加密密码
func PasswordEncrypt(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// PasswordCompare 校验明文密码与密文是否匹配
func PasswordCompare(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
