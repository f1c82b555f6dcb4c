package adapters

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nzvirtual/api/configs"
	"github.com/nzvirtual/api/internal/auth"
	"github.com/nzvirtual/api/internal/domain"
	"github.com/nzvirtual/api/internal/ports"
)

type RestAPI struct {
	logger      *zap.Logger
	jwt         ports.JWT
	userStorage ports.UserStorage
	cfg         *configs.Config
	gatherer    prometheus.Gatherer
	*gin.Engine
}

func NewRestAPI(
	cfg *configs.Config,
	logger *zap.Logger,
	jwt ports.JWT,
	userStorage ports.UserStorage,
	gatherer prometheus.Gatherer,
	engine *gin.Engine,
) *RestAPI {
	return &RestAPI{
		logger:      logger,
		jwt:         jwt,
		userStorage: userStorage,
		cfg:         cfg,
		gatherer:    gatherer,
		Engine:      engine,
	}
}

// Serve registers the API routes on the embedded engine.
func (r *RestAPI) Serve() {
	r.POST("/api/auth/login", r.authUser)
	r.POST("/api/auth/register", r.registerUser)
	r.GET("/api/users/me", auth.AuthMiddleware(r.jwt, r.logger), r.currentUser)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
}

func (r *RestAPI) authUser(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.AbortWithStatusJSON(
			http.StatusBadRequest,
			gin.H{
				"error": "empty password or email",
			},
		)
		return
	}
	user, err := r.userStorage.GetByEmail(c.Request.Context(), email)
	if errors.Is(err, domain.ErrUserNotExist) {
		c.AbortWithStatusJSON(
			http.StatusNotFound,
			gin.H{
				"error": fmt.Sprintf("user with email=%s does not exist", email),
			},
		)
		return
	} else if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if !user.ValidatePassword(password) {
		c.AbortWithStatusJSON(
			http.StatusUnauthorized,
			gin.H{"error": "wrong email or password"},
		)
		return
	}
	token, err := r.jwt.GenerateTokenFromAuthentication(domain.NewAuthentication(user))
	if err != nil {
		r.logger.Error("error when creating a jwt-token", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.SetCookie(auth.CookieName, token, r.cfg.Auth.Lifetime*60, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"UserID": user.ID, "token": token, "type": "Bearer"})
}

func (r *RestAPI) registerUser(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")
	if name == "" || email == "" || password == "" {
		c.AbortWithStatusJSON(
			http.StatusBadRequest,
			gin.H{
				"error": "empty name, password or email",
			},
		)
		return
	}
	ctx := c.Request.Context()
	if _, err := r.userStorage.GetByEmail(ctx, email); err == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": domain.ErrEmailTaken.Error()})
		return
	} else if !errors.Is(err, domain.ErrUserNotExist) {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	user, err := domain.NewUser(name, email, password)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	err = r.userStorage.Save(ctx, user)
	if errors.Is(err, domain.ErrEmailTaken) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": domain.ErrEmailTaken.Error()})
		return
	} else if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"UserID": user.ID, "msg": "user registered"})
}

func (r *RestAPI) currentUser(c *gin.Context) {
	userID := c.GetInt64(auth.UserIDKey)
	user, err := r.userStorage.FindByID(c.Request.Context(), userID)
	if errors.Is(err, domain.ErrUserNotExist) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user does not exist"})
		return
	} else if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, user)
}
