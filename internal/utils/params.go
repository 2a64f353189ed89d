package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	idStr := ctx.Param(name)

	if idStr == "" {
		return 0, errors.New(name + " not found")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + name)
	}

	return uint(id), nil
}

func GetHackathonID(ctx *gin.Context) (uint, error) {
	return GetIDParam(ctx, "hackathon_id")
}

func GetTeamID(ctx *gin.Context) (uint, error) {
	return GetIDParam(ctx, "team_id")
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	return GetIDParam(ctx, "project_id")
}

func GetRequestID(ctx *gin.Context) (uint, error) {
	return GetIDParam(ctx, "request_id")
}
