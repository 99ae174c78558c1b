package controllers

import (
	"github.com/vibelink-events/vibelink-api/config"
	"github.com/vibelink-events/vibelink-api/services"
)

// The services below are built per request from the package instances so tests
// can swap the database and mocks between cases.

func currentConfig() *config.Config {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{}
}

func orderService() *services.OrderService {
	return services.NewOrderService(
		config.GetDB(),
		services.GetImageService(),
		services.GetNotifier(),
		services.GetCaptcha(),
		currentConfig().WhatsAppNumber,
		config.GetLogger(),
	)
}

func portalService() *services.PortalService {
	return services.NewPortalService(config.GetDB(), services.GetNotifier(), currentConfig().SessionSecret, config.GetLogger())
}

func adminService() *services.AdminService {
	return services.NewAdminService(config.GetDB(), services.GetNotifier(), config.GetLogger())
}

func paymentService() *services.PaymentService {
	return services.NewPaymentService(config.GetDB(), services.GetPaymentGateway(), services.GetNotifier(), config.GetLogger())
}

func contentService() *services.ContentService {
	return services.NewContentService(config.GetDB(), services.GetNotifier(), config.GetLogger())
}
