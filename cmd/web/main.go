// @title           Accounts API
// @version         1.0
// @description     API управления пользовательскими аккаунтами: регистрация,
// @description     аутентификация, профиль, настройки.
// @host            localhost:8000
// @BasePath        /

package main

import "accounts_backend/internal/app"

func main() {
	app.Run()
}
