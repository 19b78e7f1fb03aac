package users

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/NCATS-Gamma/ginhashids/internal/hashids"
	"github.com/NCATS-Gamma/ginhashids/internal/routing"
)

func handleErr(c *gin.Context, err error) {
	errorMsg := err.Error()
	errorResponse := map[string]string{
		"message": errorMsg,
	}
	if strings.HasPrefix(errorMsg, "Bad Request") {
		c.JSON(http.StatusBadRequest, errorResponse)
	} else if strings.HasPrefix(errorMsg, "Not Found") {
		c.JSON(http.StatusNotFound, errorResponse)
	} else {
		log.WithFields(log.Fields{"error": err}).
			WithContext(c).
			Error("Internal Server Error")
		// Rewrite error message so that we don't expose it to the user
		errorResponse["message"] = "Internal Server Error"
		c.JSON(http.StatusInternalServerError, errorResponse)
	}
}

type api struct {
	store  *Store
	routes *routing.Router
}

// Body of POST and PUT requests
type userRequest struct {
	Name *string `json:"name"`
}

// SetupRouter sets up the router. h is registered as the "hashid" path
// converter and made available to handlers through hashids.FromContext.
func SetupRouter(store *Store, h *hashids.Hashids, corsOrigins []string) (*gin.Engine, *routing.Router, error) {
	r := gin.Default()

	if len(corsOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = corsOrigins
		corsConfig.AllowHeaders = []string{"Content-Type", "Accept"}
		corsConfig.ExposeHeaders = []string{"Content-Location"}
		r.Use(cors.New(corsConfig))
	}
	r.Use(h.Middleware())

	routes := routing.New(r)
	if err := h.Init(routes); err != nil {
		return nil, nil, err
	}

	a := &api{store: store, routes: routes}
	routes.POST("create_user", "/users", a.createUser)
	routes.GET("read_users", "/users", a.readUsers)
	routes.GET("read_user", "/users/<hashid:user_id>", a.readUser)
	routes.PUT("update_user", "/users/<hashid:user_id>", a.updateUser)
	routes.DELETE("delete_user", "/users/<hashid:user_id>", a.deleteUser)
	routes.GET("read_pair", "/pairs/<hashid:user_ids>", a.readPair)

	return r, routes, nil
}

// present fills in the public ID and URL of user
func (a *api) present(c *gin.Context, user *User) error {
	h, ok := hashids.FromContext(c)
	if !ok {
		return fmt.Errorf("hashids are not installed on this router")
	}
	var err error
	user.Hash, err = h.PublicID(user)
	if err != nil {
		return err
	}
	user.URL, err = a.routes.URLFor("read_user", map[string]any{"user_id": user.ID})
	return err
}

// userID reads the single ID a route segment decoded to.
func userID(c *gin.Context) (int, error) {
	id, ok := hashids.Param(c, "user_id").Single()
	if !ok {
		return -1, fmt.Errorf("Not Found: user does not exist")
	}
	return id, nil
}

func (a *api) createUser(c *gin.Context) {
	var body userRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == nil {
		handleErr(c, fmt.Errorf("Bad Request: a name is required"))
		return
	}

	newID, err := a.store.PostUser(User{Name: *body.Name})
	if err != nil {
		handleErr(c, err)
		return
	}
	user, err := a.store.GetUser(newID)
	if err != nil {
		handleErr(c, err)
		return
	}
	if err := a.present(c, &user); err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (a *api) readUsers(c *gin.Context) {
	users, err := a.store.GetUsers()
	if err != nil {
		handleErr(c, err)
		return
	}
	for i := range users {
		if err := a.present(c, &users[i]); err != nil {
			handleErr(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, users)
}

func (a *api) readUser(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		handleErr(c, err)
		return
	}
	user, err := a.store.GetUser(id)
	if err != nil {
		handleErr(c, err)
		return
	}
	if err := a.present(c, &user); err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *api) updateUser(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		handleErr(c, err)
		return
	}
	user, err := a.store.GetUser(id)
	if err != nil {
		handleErr(c, err)
		return
	}

	var body userRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		handleErr(c, fmt.Errorf("Bad Request: error parsing request body"))
		return
	}
	// Keep the current name when none is given
	if body.Name != nil {
		user.Name = *body.Name
	}
	if err := a.store.PutUser(user); err != nil {
		handleErr(c, err)
		return
	}

	log.WithFields(
		log.Fields{"user": fmt.Sprintf("%+v", user)}).Debug("Updated user")

	if err := a.present(c, &user); err != nil {
		handleErr(c, err)
		return
	}
	c.Header("Content-Location", user.URL)
	c.Status(http.StatusNoContent)
}

func (a *api) deleteUser(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		handleErr(c, err)
		return
	}
	if err := a.store.DeleteUser(id); err != nil {
		handleErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// readPair returns the two users addressed by one composite hashid.
func (a *api) readPair(c *gin.Context) {
	ids, ok := hashids.Param(c, "user_ids").Multiple()
	if !ok || len(ids) != 2 {
		handleErr(c, fmt.Errorf("Bad Request: expected a hashid of exactly two user IDs"))
		return
	}

	pair := make([]User, 0, len(ids))
	for _, id := range ids {
		user, err := a.store.GetUser(id)
		if err != nil {
			handleErr(c, err)
			return
		}
		if err := a.present(c, &user); err != nil {
			handleErr(c, err)
			return
		}
		pair = append(pair, user)
	}
	c.JSON(http.StatusOK, pair)
}
