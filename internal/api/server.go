// Package api exposes the scavenger runtime over HTTP: a small
// introspection surface for watching which surrogates are known, what
// the scheduler decided, and the announcement endpoint a surrogate
// uses to join the peer directory. Grounded on internal/api/server.go's
// gin+cors setup.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cyberforage/aprofile-scavenger/internal/decisionlog"
	"github.com/cyberforage/aprofile-scavenger/internal/runtime"
	"github.com/cyberforage/aprofile-scavenger/pkg/models"
	"github.com/cyberforage/aprofile-scavenger/pkg/profile"
)

// Server serves the scavenger's HTTP introspection API.
type Server struct {
	router *gin.Engine
	rt     *runtime.Runtime
	decide *decisionlog.Store
	port   string
}

// NewServer builds a Server bound to rt. decide may be nil, in which
// case /decisions reports an empty list rather than failing, matching
// Runtime.WithDecisionLog's "audit logging is optional" stance.
func NewServer(rt *runtime.Runtime, decide *decisionlog.Store, port string) *Server {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(config))

	server := &Server{
		router: router,
		rt:     rt,
		decide: decide,
		port:   port,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")

	api.GET("/peers", s.listPeers)
	api.GET("/profile/:task", s.getProfile)
	api.GET("/decisions", s.listDecisions)
	api.POST("/discovery", s.announcePeer)

	api.GET("/health", s.healthCheck)
}

// Start runs the server, blocking until it exits or errors.
func (s *Server) Start() error {
	return s.router.Run(":" + s.port)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now(),
	})
}

func (s *Server) listPeers(c *gin.Context) {
	c.JSON(http.StatusOK, s.rt.Peers().Snapshot())
}

// getProfile reports the local-store key a task/executor pair resolves
// to. It does not reach into profile.Store directly (Runtime keeps both
// stores unexported): this is a lookup-key helper for operators
// correlating /decisions rows against the .dat files on disk.
func (s *Server) getProfile(c *gin.Context) {
	task := c.Param("task")
	executor := c.DefaultQuery("executor", "localhost")

	c.JSON(http.StatusOK, gin.H{
		"task":     task,
		"executor": executor,
		"key":      profile.LocalKey(executor, task),
	})
}

func (s *Server) listDecisions(c *gin.Context) {
	if s.decide == nil {
		c.JSON(http.StatusOK, []decisionlog.Decision{})
		return
	}

	taskName := c.Query("task")
	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	decisions, err := s.decide.ListDecisions(taskName, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, decisions)
}

// announcementRequest is the JSON shape a surrogate POSTs to register
// or refresh itself, the HTTP analogue of the binary Announcement
// pkg/peercontext decodes off a discovery socket.
type announcementRequest struct {
	Name        string  `json:"name" binding:"required"`
	Host        string  `json:"host" binding:"required"`
	Port        int     `json:"port" binding:"required"`
	CPUStrength float32 `json:"cpu_strength"`
	CPUCores    uint32  `json:"cpu_cores"`
	ActiveTasks uint32  `json:"active_tasks"`
	NetClass    int     `json:"net_class"`
}

func (s *Server) announcePeer(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	peer := models.Peer{
		Name:        req.Name,
		Address:     models.Address{Host: req.Host, Port: req.Port},
		CPUStrength: req.CPUStrength,
		CPUCores:    req.CPUCores,
		ActiveTasks: req.ActiveTasks,
		NetClass:    models.NetClass(req.NetClass),
		LastSeen:    time.Now(),
	}
	s.rt.Peers().Upsert(peer)

	c.JSON(http.StatusOK, gin.H{"message": "peer registered"})
}
