package controllers

import (
	"fieldops/internal/database"
	"fieldops/internal/repositories"
	"fieldops/internal/services"

	ordersController "fieldops/internal/controllers/orders"
	photosController "fieldops/internal/controllers/photos"
	reportsController "fieldops/internal/controllers/reports"
)

type Controllers struct {
	Orders  ordersController.OrdersControllerInterface
	Reports reportsController.ReportsControllerInterface
	Photos  photosController.PhotosControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) Controllers {
	return Controllers{
		Orders:  ordersController.New(repos, services, db),
		Reports: reportsController.New(repos, services, db),
		Photos:  photosController.New(repos, services, db),
	}
}
