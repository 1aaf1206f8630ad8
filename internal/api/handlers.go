package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/verte-zerg/lotofacil/internal/export"
	"github.com/verte-zerg/lotofacil/internal/generator"
	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/stats"
	"github.com/verte-zerg/lotofacil/internal/store"
)

type drawsRequest struct {
	Last int `query:"last" validate:"gte=0"`
}

type rankingsRequest struct {
	Last int `query:"last" validate:"gte=0"`
	Top  int `query:"top" default:"25" validate:"gte=1,lte=25"`
}

type playsRequest struct {
	Plays       int               `json:"plays" default:"1" validate:"gte=1,lte=100"`
	Last        int               `json:"last" validate:"gte=0"`
	Alpha       *float64          `json:"alpha"`
	Beta        *float64          `json:"beta"`
	Floor       *float64          `json:"floor" validate:"omitempty,gte=0"`
	Sum         *generator.Bounds `json:"sum"`
	Odd         *generator.Bounds `json:"odd"`
	MaxRun      *generator.Limit  `json:"max_run"`
	MaxOverlap  *generator.Limit  `json:"max_overlap"`
	MaxAttempts int               `json:"max_attempts" default:"100" validate:"gte=1,lte=100000"`
	Distinct    bool              `json:"distinct"`
	Seed        *int64            `json:"seed"`
	Save        bool              `json:"save"`
	Note        string            `json:"note" validate:"max=200"`
}

type evaluateRequest struct {
	Plays   [][]int `json:"plays" validate:"omitempty,max=100,dive,min=15,max=20,dive,gte=1,lte=25"`
	BatchID string  `json:"batch_id"`
	Last    int     `json:"last" validate:"gte=0"`
}

// DrawDoc is one stored draw.
type DrawDoc struct {
	Contest int    `json:"contest"`
	Date    string `json:"date,omitempty"`
	Numbers []int  `json:"numbers"`
}

func (s *Server) registerRoutes(g *echo.Group) {
	g.GET("/draws", s.listDraws)
	g.GET("/rankings", s.rankings)
	g.POST("/plays", s.generatePlays)
	g.POST("/evaluate", s.evaluate)
	g.GET("/batches/:id", s.getBatch)
}

func (s *Server) listDraws(c echo.Context) error {
	req := &drawsRequest{}
	if verr := bindRequest(c, req); verr != nil {
		return badRequestResponse(c, verr)
	}
	records, err := s.store.ListDraws(c.Request().Context(), req.Last)
	if err != nil {
		s.log.Error().Err(err).Msg("list draws")
		return internalErrorResponse(c)
	}
	out := make([]DrawDoc, 0, len(records))
	for _, r := range records {
		doc := DrawDoc{Contest: r.Contest, Numbers: r.Draw.Numbers()}
		if !r.Date.IsZero() {
			doc.Date = r.Date.Format(time.DateOnly)
		}
		out = append(out, doc)
	}
	return successResponse(c, out)
}

func (s *Server) rankings(c echo.Context) error {
	req := &rankingsRequest{}
	if verr := bindRequest(c, req); verr != nil {
		return badRequestResponse(c, verr)
	}
	h, err := s.history(c, req.Last)
	if err != nil {
		return internalErrorResponse(c)
	}
	return successResponse(c, export.NewRankingsDoc(stats.Analyze(h), req.Top))
}

func (s *Server) generatePlays(c echo.Context) error {
	req := &playsRequest{}
	if verr := bindRequest(c, req); verr != nil {
		return badRequestResponse(c, verr)
	}
	cfg := req.config()

	h, err := s.history(c, req.Last)
	if err != nil {
		return internalErrorResponse(c)
	}
	seed := s.seed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	ctx := c.Request().Context()
	res, err := generator.NewSeeded(seed).GenerateParallel(ctx, h, cfg, s.workers)
	s.metrics.attempts.Add(float64(res.Attempts))
	if err != nil {
		var werr *generator.InvalidWeightError
		var exhausted *generator.GenerationExhaustedError
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &werr):
			return badRequestResponse(c, []ErrorDetail{{Code: "ERR_WEIGHTS", Message: werr.Error()}})
		case errors.As(err, &exhausted):
			s.metrics.exhausted.Inc()
			return unprocessableResponse(c, "ERR_EXHAUSTED", err)
		case errors.As(err, &verrs):
			return badRequestResponse(c, errorDetails(verrs))
		default:
			s.log.Error().Err(err).Msg("generate plays")
			return internalErrorResponse(c)
		}
	}
	s.metrics.playsGenerated.Add(float64(len(res.Plays)))
	s.metrics.shortfall.Add(float64(res.Shortfall))

	batchID := ""
	if req.Save && len(res.Plays) > 0 {
		batchID, err = s.store.SaveBatch(ctx, model.Batch{CreatedAt: time.Now().UTC(), Note: req.Note, Plays: res.Plays})
		if err != nil {
			s.log.Error().Err(err).Msg("save batch")
			return internalErrorResponse(c)
		}
		return createdResponse(c, export.NewPlaysDoc(batchID, res))
	}
	return successResponse(c, export.NewPlaysDoc(batchID, res))
}

func (r *playsRequest) config() generator.Config {
	cfg := generator.DefaultConfig()
	cfg.Plays = r.Plays
	cfg.MaxAttempts = r.MaxAttempts
	cfg.RequireDistinct = r.Distinct
	if r.Alpha != nil {
		cfg.Alpha = *r.Alpha
	}
	if r.Beta != nil {
		cfg.Beta = *r.Beta
	}
	if r.Floor != nil {
		cfg.Floor = *r.Floor
	}
	if r.Sum != nil {
		cfg.Sum = *r.Sum
	}
	if r.Odd != nil {
		cfg.Odd = *r.Odd
	}
	if r.MaxRun != nil {
		cfg.MaxRun = *r.MaxRun
	}
	if r.MaxOverlap != nil {
		cfg.MaxOverlap = *r.MaxOverlap
	}
	return cfg
}

func (s *Server) evaluate(c echo.Context) error {
	req := &evaluateRequest{}
	if verr := bindRequest(c, req); verr != nil {
		return badRequestResponse(c, verr)
	}

	var plays []model.Play
	for _, numbers := range req.Plays {
		p, err := model.ParsePlay(numbers)
		if err != nil {
			return badRequestResponse(c, []ErrorDetail{{Code: "ERR_PLAY", Field: "plays", Message: err.Error()}})
		}
		plays = append(plays, p)
	}
	if req.BatchID != "" {
		batch, err := s.store.GetBatch(c.Request().Context(), req.BatchID)
		if errors.Is(err, store.ErrBatchNotFound) {
			return notFoundResponse(c, "batch not found")
		}
		if err != nil {
			s.log.Error().Err(err).Msg("get batch")
			return internalErrorResponse(c)
		}
		plays = append(plays, batch.Plays...)
	}
	if len(plays) == 0 {
		return badRequestResponse(c, []ErrorDetail{{Code: "ERR_REQUIRED", Field: "plays", Message: "plays or batch_id is required"}})
	}

	h, err := s.history(c, req.Last)
	if err != nil {
		return internalErrorResponse(c)
	}
	s.metrics.evaluationsServed.Add(float64(len(plays)))
	return successResponse(c, export.NewEvaluationDocs(stats.EvaluatePlays(h, plays)))
}

func (s *Server) getBatch(c echo.Context) error {
	batch, err := s.store.GetBatch(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrBatchNotFound) {
		return notFoundResponse(c, "batch not found")
	}
	if err != nil {
		s.log.Error().Err(err).Msg("get batch")
		return internalErrorResponse(c)
	}
	doc := export.NewPlaysDoc(batch.ID, generator.Result{Plays: batch.Plays})
	return successResponse(c, struct {
		export.PlaysDoc
		CreatedAt time.Time `json:"created_at"`
		Note      string    `json:"note,omitempty"`
	}{doc, batch.CreatedAt, batch.Note})
}

func (s *Server) history(c echo.Context, last int) (model.History, error) {
	records, err := s.store.ListDraws(c.Request().Context(), last)
	if err != nil {
		s.log.Error().Err(err).Msg("list draws")
		return nil, err
	}
	return model.HistoryOf(records), nil
}
