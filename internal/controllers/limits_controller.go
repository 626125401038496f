package controllers

import (
	"net/http"
	"statekeeper/internal/services"
)

type LimitsController struct {
	purchases services.PurchaseServiceInterface
	stages    services.StageEntryServiceInterface
}

func NewLimitsController(purchases services.PurchaseServiceInterface, stages services.StageEntryServiceInterface) *LimitsController {
	return &LimitsController{purchases: purchases, stages: stages}
}

func (lc *LimitsController) CheckPurchase(w http.ResponseWriter, r *http.Request) {
	product, ok := requireParam(w, r, "product")
	if !ok {
		return
	}
	res, err := lc.purchases.Check(product)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (lc *LimitsController) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	product, ok := requireParam(w, r, "product")
	if !ok {
		return
	}
	rec, err := lc.purchases.Record(product)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (lc *LimitsController) CheckStage(w http.ResponseWriter, r *http.Request) {
	stage, ok := requireParam(w, r, "stage")
	if !ok {
		return
	}
	res, err := lc.stages.Check(stage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (lc *LimitsController) EnterStage(w http.ResponseWriter, r *http.Request) {
	stage, ok := requireParam(w, r, "stage")
	if !ok {
		return
	}
	rec, err := lc.stages.Enter(stage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}
