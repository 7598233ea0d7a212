package handlers

import (
	userRepoPkg "tally/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	// User endpoints
	RegisterUserHandler        gin.HandlerFunc
	AuthenticateUserHandler    gin.HandlerFunc
	GetMeHandler               gin.HandlerFunc
	UpdateUserHandler          gin.HandlerFunc
	DeleteUserHandler          gin.HandlerFunc
	RevokeUserAuthTokenHandler gin.HandlerFunc

	// Token record endpoints
	SubmitTokenDataHandler   gin.HandlerFunc
	GetTokenRecordsHandler   gin.HandlerFunc
	GetTokenRecordHandler    gin.HandlerFunc
	DeleteTokenRecordHandler gin.HandlerFunc
	GetCurrentSlotHandler    gin.HandlerFunc
	GetGridHandler           gin.HandlerFunc
}
