package main

import (
	"log"
	"net/http"

	"pickup/src/capture"
	"pickup/src/common"
	"pickup/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func getSessionFlow(ctx *gin.Context) (*common.Flow, bool) {
	var params types.SessionURIParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	id, err := uuid.Parse(params.ID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	flow, ok := common.GetSessionManager().Get(id)
	if !ok {
		ctx.Status(http.StatusNotFound)
		return nil, false
	}
	return flow, true
}

func sessionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/sessions", func(ctx *gin.Context) {
			var body types.CreateSessionRequestBody
			if ctx.Request.ContentLength > 0 {
				if err := ctx.ShouldBindJSON(&body); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}
			auth := ctx.GetString("auth")
			flow := common.GetSessionManager().Create(auth, body.Station)
			ctx.JSON(http.StatusCreated, gin.H{"data": flow.Snapshot()})
		}).
		GET("/sessions/:id", func(ctx *gin.Context) {
			flow, ok := getSessionFlow(ctx)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": flow.Snapshot()})
		}).
		POST("/sessions/:id/mode", func(ctx *gin.Context) {
			var body types.SwitchModeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			flow, ok := getSessionFlow(ctx)
			if !ok {
				return
			}
			var err error
			switch body.Mode {
			case types.MODE_SCAN:
				err = flow.ChooseScan(capture.FACING_ENVIRONMENT)
			default:
				err = flow.ChooseCode()
			}
			if err != nil {
				log.Printf("Error switching session [%s] to mode [%s]: %s\n", flow.ID.String(), body.Mode, err.Error())
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": flow.Snapshot()})
		}).
		POST("/sessions/:id/verify/code", func(ctx *gin.Context) {
			var body types.VerifyCodeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			flow, ok := getSessionFlow(ctx)
			if !ok {
				return
			}
			outcome, err := flow.SubmitCode(ctx.Copy(), body.ConfirmationCode)
			if err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if !outcome.OK {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": outcome.Message})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": outcome.Message, "data": flow.Snapshot()})
		}).
		POST("/sessions/:id/verify/qr", func(ctx *gin.Context) {
			var body types.VerifyQrRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			flow, ok := getSessionFlow(ctx)
			if !ok {
				return
			}
			outcome, err := flow.SubmitQr(ctx.Copy(), body.QrData)
			if err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if !outcome.OK {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": outcome.Message, "data": flow.Snapshot()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": outcome.Message, "data": flow.Snapshot()})
		}).
		POST("/sessions/:id/reset", func(ctx *gin.Context) {
			flow, ok := getSessionFlow(ctx)
			if !ok {
				return
			}
			if err := flow.Reset(); err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": flow.Snapshot()})
		}).
		PUT("/requests/:id/complete", func(ctx *gin.Context) {
			// Stateless per-request path for operators who already know
			// which approved request they are completing.
			var params struct {
				ID uint `uri:"id" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.VerifyCodeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			auth := ctx.GetString("auth")
			outcome := common.GetCoordinator().SubmitCodeForRequest(ctx.Copy(), auth, params.ID, body.ConfirmationCode)
			if !outcome.OK {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": outcome.Message})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": outcome.Message, "data": outcome.Data})
		}).
		DELETE("/sessions/:id", func(ctx *gin.Context) {
			var params types.SessionURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, err := uuid.Parse(params.ID)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !common.GetSessionManager().Delete(id) {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
