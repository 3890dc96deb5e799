package services

// ServiceContainer - контейнер всех сервисов приложения
type ServiceContainer struct {
	AuthService AuthService
	UserService UserService
}
