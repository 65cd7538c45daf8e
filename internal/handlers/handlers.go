package handlers

import (
	"github.com/dbforge/mssql-provision-agent/internal/services"
	"github.com/dbforge/mssql-provision-agent/internal/store"
)

type Handler struct {
	planner     *services.Planner
	provisioner *services.Provisioner
	history     *services.History
	store       *store.Store
	connect     services.ConnectFunc
}

func New(planner *services.Planner, provisioner *services.Provisioner, history *services.History, st *store.Store, connect services.ConnectFunc) *Handler {
	return &Handler{
		planner:     planner,
		provisioner: provisioner,
		history:     history,
		store:       st,
		connect:     connect,
	}
}
