package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/utils"
)

const (
	userIDHeader         = "X-User-ID"
	maxRequestBodyBytes  = 1 << 20 // 1MB
	defaultHistoryWindow = constants.DefaultHistoryDays
	includeDeletedQuery  = "includeDeleted"
	historyStartQuery    = "start"
	historyEndQuery      = "end"
)

var validate = validator.New()

type ctxKey struct{}

type handler struct {
	service       *service.Service
	defaultUserID int64
}

type frequencyRequest struct {
	Type       string `json:"type" validate:"required,oneof=daily weekly"`
	TargetDays []int  `json:"targetDays" validate:"omitempty,max=7,dive,min=0,max=6"`
}

type createHabitRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description" validate:"max=500"`
	Category    string           `json:"category" validate:"required"`
	Subcategory string           `json:"subcategory" validate:"max=100"`
	Frequency   frequencyRequest `json:"frequency"`
	StartAt     string           `json:"startAt" validate:"omitempty,datetime=2006-01-02"`
	EndAt       string           `json:"endAt" validate:"omitempty,datetime=2006-01-02"`
}

type toggleRequest struct {
	Day  string  `json:"day" validate:"omitempty,datetime=2006-01-02"`
	Mood *int    `json:"mood" validate:"omitempty,min=1,max=5"`
	Note *string `json:"note" validate:"omitempty,max=500"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

type statsResponse struct {
	HabitID int64                    `json:"habitId"`
	Stats   models.DerivedHabitStats `json:"stats"`
}

type checkResponse struct {
	NewBadges []models.BadgeDefinition `json:"newBadges"`
}

// requireUser resolves the caller from X-User-ID. There is no real
// authentication; the header is trusted.
func (h *handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(userIDHeader))
		userID := h.defaultUserID
		if raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeError(w, r, CodeBadRequest, "invalid "+userIDHeader+" header")
				return
			}
			userID = id
		}
		if userID <= 0 {
			writeError(w, r, CodeUnauthorized, "missing user ID")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func userFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKey{}).(int64)
	return id
}

func habitIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid habit id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// decodeBody reads a JSON body into dst and validates it. An empty body is
// allowed when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("invalid request body: %w", err)
		}
	}
	return validate.Struct(dst)
}

func (h *handler) today(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.TodayOverview(r.Context(), userFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *handler) listHabits(w http.ResponseWriter, r *http.Request) {
	includeDeleted, _ := strconv.ParseBool(r.URL.Query().Get(includeDeletedQuery))
	habits, err := h.service.ListHabits(r.Context(), userFrom(r.Context()), includeDeleted)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	writeJSON(w, http.StatusOK, listResponse[models.Habit]{Items: habits})
}

func (h *handler) createHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeError(w, r, CodeBadRequest, err.Error())
		return
	}

	habit := models.Habit{
		UserID:      userFrom(r.Context()),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Category:    models.HabitCategory(strings.TrimSpace(req.Category)),
		Subcategory: strings.TrimSpace(req.Subcategory),
		Frequency: models.Frequency{
			Type:       models.FrequencyType(req.Frequency.Type),
			TargetDays: req.Frequency.TargetDays,
		},
	}
	if req.StartAt != "" {
		start, _ := utils.ParseDay(req.StartAt)
		habit.StartAt = start
	}
	if req.EndAt != "" {
		end, _ := utils.ParseDay(req.EndAt)
		habit.EndAt = &end
	}

	created, err := h.service.CreateHabit(r.Context(), habit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) habitStats(w http.ResponseWriter, r *http.Request) {
	id, err := habitIDParam(r)
	if err != nil {
		writeError(w, r, CodeBadRequest, err.Error())
		return
	}
	st, err := h.service.HabitStats(r.Context(), userFrom(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{HabitID: id, Stats: st})
}

func (h *handler) toggleCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := habitIDParam(r)
	if err != nil {
		writeError(w, r, CodeBadRequest, err.Error())
		return
	}
	var req toggleRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		writeError(w, r, CodeBadRequest, err.Error())
		return
	}

	result, err := h.service.ToggleCompletion(r.Context(), userFrom(r.Context()), id, req.Day, req.Mood, req.Note)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// history serves ?start=&end=. A missing end means today and a missing start
// means the default window ending at end.
func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startDay := q.Get(historyStartQuery)
	endDay := q.Get(historyEndQuery)

	if endDay == "" {
		endDay = h.service.Today()
	}
	if startDay == "" {
		end, err := utils.ParseDay(endDay)
		if err != nil {
			writeError(w, r, CodeBadRequest, fmt.Sprintf("invalid end date %q", endDay))
			return
		}
		startDay = utils.DayKey(utils.AddDays(end, -(defaultHistoryWindow - 1)))
	}

	days, err := h.service.History(r.Context(), userFrom(r.Context()), startDay, endDay)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[models.DailySummary]{Items: days})
}

func (h *handler) listBadges(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.BadgeProgress(r.Context(), userFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[models.BadgeProgress]{Items: progress})
}

func (h *handler) checkBadges(w http.ResponseWriter, r *http.Request) {
	earned, err := h.service.EvaluateBadges(r.Context(), userFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{NewBadges: earned})
}
