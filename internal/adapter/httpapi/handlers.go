package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/usecase"
)

func (s *Server) cards(c echo.Context) error {
	cards, err := s.svc.Catalog.Cards(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": cards})
}

func (s *Server) collectMetaDecks(c echo.Context) error {
	force, _ := strconv.ParseBool(c.QueryParam("force"))
	decks, err := s.svc.Collect.Load(c.Request().Context(), force)
	if err != nil {
		return err
	}
	if force {
		s.svc.Meta.InvalidateDistribution()
	}
	if decks == nil {
		decks = []domain.CorpusDeck{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"metaDecks": decks})
}

type similarRequest struct {
	UserDeck []domain.Card `json:"userDeck"`
	TopN     int           `json:"topN"`
	Explain  *bool         `json:"explain"`
}

func (s *Server) similarDecks(c echo.Context) error {
	var req similarRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	opts := usecase.SimilarOptions{TopN: req.TopN, Explain: true}
	if req.Explain != nil {
		opts.Explain = *req.Explain
	}

	result, err := s.svc.Similar.Similar(c.Request().Context(), req.UserDeck, opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func limitParam(c echo.Context, fallback int) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
	}
	return n, nil
}

func (s *Server) popularCards(c echo.Context) error {
	n, err := limitParam(c, s.svc.PopularCards)
	if err != nil {
		return err
	}
	cards, err := s.svc.Meta.PopularCards(c.Request().Context(), n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"popularCards": cards})
}

func (s *Server) popularDecks(c echo.Context) error {
	n, err := limitParam(c, s.svc.PopularDecks)
	if err != nil {
		return err
	}
	decks, err := s.svc.Meta.PopularDecks(c.Request().Context(), n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"popularDecks": decks})
}

func (s *Server) archetypeDistribution(c echo.Context) error {
	shares, err := s.svc.Meta.ArchetypeDistribution(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"archetypeDistribution": shares})
}

type analyzeRequest struct {
	Deck []domain.Card `json:"deck"`
	LLM  bool          `json:"llm"`
}

func (s *Server) analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	analysis, err := s.svc.Analyze.Analyze(c.Request().Context(), req.Deck, req.LLM)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"analysis": analysis.Report.Summary,
		"details":  analysis,
	})
}

func (s *Server) generateDeck(c echo.Context) error {
	var prefs domain.DeckPreferences
	if err := c.Bind(&prefs); err != nil {
		return err
	}
	deck, err := s.svc.Analyze.Generate(c.Request().Context(), prefs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"generatedData": deck})
}

func (s *Server) player(c echo.Context) error {
	tag := c.Param("tag")
	if tag == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "player tag is required")
	}
	player, err := s.svc.Player.CurrentDeck(c.Request().Context(), tag)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tag":   player.Tag,
		"name":  player.Name,
		"decks": [][]domain.Card{player.CurrentDeck},
	})
}

func (s *Server) randomDeck(c echo.Context) error {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	deck, err := s.svc.Analyze.RandomDeck(c.Request().Context(), s.rng)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"deck": deck})
}

type swapRequest struct {
	Deck []domain.Card `json:"deck"`
	Out  domain.Card   `json:"out"`
	In   domain.Card   `json:"in"`
}

func (s *Server) swap(c echo.Context) error {
	var req swapRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	deck, err := usecase.ApplySwap(req.Deck, req.Out, req.In)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"deck": deck})
}
