package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	constants "github.com/CodeAndHammer/venkovorto/internal/constants"
	counter "github.com/CodeAndHammer/venkovorto/internal/counter"
	game "github.com/CodeAndHammer/venkovorto/internal/game"
	models "github.com/CodeAndHammer/venkovorto/internal/models"
	persona "github.com/CodeAndHammer/venkovorto/internal/persona"
	session "github.com/CodeAndHammer/venkovorto/internal/session"
	util "github.com/CodeAndHammer/venkovorto/internal/util"
)

// Server wires the resolver and stores into gin handlers.
type Server struct {
	Cfg      *models.Config
	Resolver *game.Resolver
	Sessions *session.Store
	Counter  *counter.Store

	// LimiterCount reports live rate-limiter entries for healthz; wired
	// from main where the limiter registry lives.
	LimiterCount func() int
}

func (s *Server) GuessHandler(c *gin.Context) {
	var req models.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.LogWarn("Rejected malformed guess body: %v", err)
		out := game.Outcome{Kind: game.OutcomeInvalidInput}
		c.JSON(http.StatusBadRequest, models.GuessResponse{
			Message: persona.Format(out, ""),
		})
		return
	}

	out := s.Resolver.ResolveGuess(c.Request.Context(), req.SessionID, req.CurrentWord, req.UserGuess)

	resp := models.GuessResponse{
		Message:   persona.Format(out, req.Persona),
		GameOver:  out.Terminal(),
		Score:     out.Score,
		SessionID: out.SessionID,
	}
	if out.Kind == game.OutcomeAccepted {
		resp.NextWord = out.NextWord
		count := out.GlobalCount
		resp.GlobalCount = &count
	}

	status := http.StatusOK
	switch out.Kind {
	case game.OutcomeInvalidInput:
		status = http.StatusBadRequest
	case game.OutcomeOracleDown, game.OutcomeStoreDown:
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (s *Server) StateHandler(c *gin.Context) {
	sess, _ := s.Sessions.GetOrCreate(c.Query("session_id"))
	sess.Lock()
	defer sess.Unlock()

	c.JSON(http.StatusOK, models.StateResponse{
		SessionID:   sess.ID,
		CurrentWord: sess.CurrentWord(),
		Words:       append([]string{}, sess.Words...),
		Score:       sess.Score,
		GameOver:    !sess.Alive,
	})
}

func (s *Server) ResetHandler(c *gin.Context) {
	var req models.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A reset with no body is still a reset.
		req = models.ResetRequest{}
	}

	if req.SessionID != "" {
		old, created := s.Sessions.GetOrCreate(req.SessionID)
		if !created {
			old.Lock()
			old.MarkDead()
			old.Unlock()
			util.LogInfo("Session %s terminated by reset", old.ID)
		}
	}

	fresh, _ := s.Sessions.GetOrCreate("")
	message := "New game. The current word is '" + constants.SeedWord + "'."
	if strings.EqualFold(req.Persona, constants.PersonaCheery) {
		message = "Fresh start! Can you beat '" + constants.SeedWord + "'?"
	}
	c.JSON(http.StatusOK, models.ResetResponse{
		Message:     message,
		SessionID:   fresh.ID,
		CurrentWord: constants.SeedWord,
	})
}

func (s *Server) StatsHandler(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	top, err := s.Counter.TopWords(ctx, limit)
	if err != nil {
		util.LogWarn("Failed to load word stats: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats unavailable"})
		return
	}

	c.JSON(http.StatusOK, models.StatsResponse{
		Words: lo.Map(top, func(wc counter.WordCount, _ int) models.WordStat {
			return models.WordStat{Word: wc.Word, Count: wc.Count}
		}),
	})
}

func (s *Server) HealthzHandler(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(s.Cfg.StartTime)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	counterStatus := "ok"
	if err := s.Counter.Ping(ctx); err != nil {
		counterStatus = "unreachable"
	}

	limiters := 0
	if s.LimiterCount != nil {
		limiters = s.LimiterCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[s.Cfg.IsProduction],
		"seed_word":       constants.SeedWord,
		"active_sessions": s.Sessions.Count(),
		"active_limiters": limiters,
		"counter_store":   counterStatus,
		"memory_alloc_mb": m.Alloc / 1024 / 1024,
		"memory_sys_mb":   m.Sys / 1024 / 1024,
		"memory_gc_count": m.NumGC,
		"uptime":          util.FormatUptime(uptime),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) HomeHandler(c *gin.Context) {
	if _, err := os.Stat("static/index.html"); err == nil {
		c.File("static/index.html")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the 'What Beats Rock?' game API!",
		"guess":   constants.RouteGuess,
		"state":   constants.RouteState,
		"stats":   constants.RouteStats,
	})
}
