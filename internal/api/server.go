// Package api exposes the table engine over HTTP for browser hosts. The
// handlers are thin: every mutation is a pure State-to-State transformation
// guarded by one mutex per process, which satisfies the engine's
// single-writer contract.
package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lox/holdemtable/internal/ai"
	"github.com/lox/holdemtable/internal/table"
)

// Server hosts tables keyed by ID
type Server struct {
	logger  *log.Logger
	decider table.Decider
	opts    []table.Option

	mu     sync.Mutex
	tables map[string]session
}

// session pairs a table snapshot with the config that created it, so reset
// can rebuild the session from scratch.
type session struct {
	state table.State
	cfg   table.Config
}

// NewServer creates the API server. decider may be nil, in which case bot
// decisions come from the in-process engine.
func NewServer(logger *log.Logger, decider table.Decider, opts ...table.Option) *Server {
	return &Server{
		logger:  logger.WithPrefix("api"),
		decider: decider,
		opts:    opts,
		tables:  make(map[string]session),
	}
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

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/table", s.handleCreate)
		apiGroup.GET("/table/:id", s.handleGet)
		apiGroup.POST("/table/:id/start", s.handleStart)
		apiGroup.POST("/table/:id/action", s.handleAction)
		apiGroup.POST("/table/:id/bot", s.handleBot)
		apiGroup.POST("/table/:id/reset", s.handleReset)
	}
	return r
}

// CreateTableRequest is the table configuration surface over the wire
type CreateTableRequest struct {
	SmallBlind    int    `json:"smallBlind"`
	BigBlind      int    `json:"bigBlind"`
	NumBots       int    `json:"numBots"`
	StartingChips int    `json:"startingChips"`
	Difficulty    string `json:"difficulty"`
}

func (s *Server) handleCreate(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	difficulty, err := ai.ParseDifficulty(req.Difficulty)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg := table.Config{
		SmallBlind:    req.SmallBlind,
		BigBlind:      req.BigBlind,
		NumBots:       req.NumBots,
		StartingChips: req.StartingChips,
		Difficulty:    difficulty,
	}

	state, err := table.New(cfg, s.opts...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.tables[state.TableID] = session{state: state, cfg: cfg}
	s.mu.Unlock()

	s.logger.Info("table created", "tableId", state.TableID, "seats", req.NumBots+1)
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleGet(c *gin.Context) {
	s.mu.Lock()
	sess, ok := s.tables[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}
	c.JSON(http.StatusOK, sess.state)
}

// ActionRequest posts a player action
type ActionRequest struct {
	PlayerID string `json:"playerId"`
	Action   string `json:"action"`
	RaiseTo  *int   `json:"raiseTo,omitempty"`
}

func (s *Server) handleAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action, err := ai.ParseAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.update(c, func(st table.State) (table.State, error) {
		hero := st.Hero()
		if hero == table.NoSeat || st.Players[hero].ID != req.PlayerID {
			return st, table.ErrOutOfTurn
		}
		switch action {
		case ai.Fold:
			return st.HeroFold()
		case ai.Raise:
			amount := st.CurrentBet + st.BigBlind
			if req.RaiseTo != nil {
				amount = *req.RaiseTo
			}
			return st.HeroRaiseTo(amount)
		case ai.AllIn:
			hero := st.Hero()
			return st.HeroRaiseTo(st.Players[hero].Chips + st.Players[hero].Bet)
		default:
			return st.HeroCall()
		}
	})
}

func (s *Server) handleStart(c *gin.Context) {
	s.update(c, func(st table.State) (table.State, error) {
		return st.StartNewHand()
	})
}

func (s *Server) handleBot(c *gin.Context) {
	s.update(c, func(st table.State) (table.State, error) {
		return st.PerformBotActionNow(c.Request.Context(), s.decider)
	})
}

func (s *Server) handleReset(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	sess, ok := s.tables[id]
	if !ok {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}
	state, err := table.New(sess.cfg, s.opts...)
	if err != nil {
		s.mu.Unlock()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// The reset table keeps its public ID so hosts can keep polling it
	state.TableID = id
	s.tables[id] = session{state: state, cfg: sess.cfg}
	s.mu.Unlock()

	s.logger.Info("table reset", "tableId", id)
	c.JSON(http.StatusOK, state)
}

// update applies one transformation under the store lock and renders the
// outcome, mapping engine errors onto HTTP statuses.
func (s *Server) update(c *gin.Context, fn func(table.State) (table.State, error)) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.tables[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}

	next, err := fn(sess.state)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, table.ErrOutOfTurn), errors.Is(err, table.ErrNoBotPending):
			status = http.StatusConflict
		case errors.Is(err, table.ErrInvalidStage), errors.Is(err, table.ErrBadConfig):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	sess.state = next
	s.tables[id] = sess
	c.JSON(http.StatusOK, next)
}
