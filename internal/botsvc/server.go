package botsvc

import (
	rand "math/rand/v2"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lox/holdemtable/internal/ai"
)

// Server answers /decide using the local heuristic engine, so the
// collaborator can run as its own process.
type Server struct {
	logger *log.Logger

	// gin serves each request on its own goroutine and the PCG source
	// is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewServer creates a decision service backed by rng
func NewServer(logger *log.Logger, rng *rand.Rand) *Server {
	return &Server{logger: logger.WithPrefix("botsvc"), rng: rng}
}

// Router builds the gin handler tree
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/decide", s.handleDecide)
	return r
}

func (s *Server) handleDecide(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	decision := ai.Decide(req.Situation(), s.rng)
	s.mu.Unlock()
	s.logger.Debug("decision served",
		"stage", req.Stage, "seat", req.Bot.SeatIndex,
		"action", decision.Action, "rationale", decision.Rationale)

	resp := DecisionResponse{Action: decision.Action, Rationale: decision.Rationale}
	if decision.Action == ai.Raise {
		raiseTo := decision.RaiseTo
		resp.RaiseTo = &raiseTo
	}
	c.JSON(http.StatusOK, resp)
}
