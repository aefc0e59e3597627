package controller

import (
	"github.com/fdapulse/shortage-etl/internal/service/etl"
	"github.com/fdapulse/shortage-etl/internal/service/reports"
)

type Controller struct {
	reports *reports.Service
	etl     *etl.Service
}

func NewController(reportsService *reports.Service, etlService *etl.Service) *Controller {
	return &Controller{reports: reportsService, etl: etlService}
}
