// Package web exposes discovery over HTTP for the departmental intranet
// page: credential checks and the printer list, nothing that mutates local
// queues.
package web

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"auprint/internal/buildings"
	"auprint/internal/model"
)

// Fetcher lists remote printer shares for a credential. Implemented by
// samba.Directory.
type Fetcher interface {
	Fetch(ctx context.Context, cred model.Credential) (map[string]string, error)
}

// PrinterResponse is one remote printer share in the /list reply.
type PrinterResponse struct {
	Name        string `json:"name"`
	Pretty      string `json:"pretty"`
	Description string `json:"description"`
}

// NewRouter creates the gin router serving the API.
func NewRouter(dir Fetcher) *gin.Engine {
	r := gin.Default()

	r.POST("/login", func(c *gin.Context) {
		cred := model.Credential{
			Username: c.PostForm("auid"),
			Password: c.PostForm("password"),
		}
		if !cred.Complete() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "auid and password are required"})
			return
		}
		if _, err := dir.Fetch(c.Request.Context(), cred); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid AUID/password combination"})
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.GET("/list", func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="auprint"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "credentials required"})
			return
		}
		printers, err := dir.Fetch(c.Request.Context(), model.Credential{Username: user, Password: pass})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid AUID/password combination"})
			return
		}
		responses := make([]PrinterResponse, 0, len(printers))
		for name, description := range printers {
			responses = append(responses, PrinterResponse{
				Name:        name,
				Pretty:      buildings.Pretty(name),
				Description: description,
			})
		}
		sort.Slice(responses, func(i, j int) bool { return responses[i].Name < responses[j].Name })
		c.JSON(http.StatusOK, responses)
	})

	return r
}
