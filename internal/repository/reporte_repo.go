package repository

import (
	"micromercado/internal/model"
)

type ReporteRepository interface {
	Repository[model.ReporteGuardado]
}

type reporteRepo struct {
	coleccion[model.ReporteGuardado]
}

func NewReporteRepository() ReporteRepository {
	return &reporteRepo{coleccion[model.ReporteGuardado]{
		key: KeyReportes,
		id:  func(r *model.ReporteGuardado) string { return r.ID },
	}}
}
