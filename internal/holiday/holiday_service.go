package holiday

import (
	"context"
	"errors"
	"strings"
	"time"

	holidayerrors "leavedesk/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const upcomingStatsLimit = 5

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateHolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, actorID, holidayID string, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, holidayID string) error
	DeleteYear(ctx context.Context, year int) (int64, error)

	List(ctx context.Context, f Filter) ([]HolidayResponse, error)
	GetByID(ctx context.Context, holidayID string) (HolidayResponse, error)
	Stats(ctx context.Context) (HolidayStatsResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, logger: l, now: time.Now}
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, holidayerrors.ErrInvalidHolidayDate
	}
	return d, nil
}

// mapWriteError translates the unique-index violation into the typed
// conflict so replays of the same holiday read as such.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_holiday_name_date" {
		return holidayerrors.ErrHolidayAlreadyExists
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") && strings.Contains(msg, "uq_holiday_name_date") {
		return holidayerrors.ErrHolidayAlreadyExists
	}

	return err
}

func (s *service) Create(ctx context.Context, actorID string, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return HolidayResponse{}, err
	}

	holidayType := req.Type
	if holidayType == "" {
		holidayType = TypePublic
	}
	if !validType(holidayType) {
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayType
	}

	h := &Holiday{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Date:        date,
		Type:        holidayType,
		Description: strings.TrimSpace(req.Description),
		Year:        date.Year(),
		IsActive:    true,
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		h.CreatedBy = &actor
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return HolidayResponse{}, mapWriteError(err)
	}

	s.logger.Info("holiday created",
		zap.String("holiday_id", h.ID.String()),
		zap.String("name", h.Name),
		zap.Int("year", h.Year),
	)
	return mapToResponse(*h), nil
}

func (s *service) Update(ctx context.Context, actorID, holidayID string, req UpdateHolidayRequest) (HolidayResponse, error) {
	if _, err := uuid.Parse(holidayID); err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayID
	}

	h, err := s.repo.FindByID(ctx, holidayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HolidayResponse{}, holidayerrors.ErrHolidayNotFound
		}
		return HolidayResponse{}, err
	}

	if req.Name != nil {
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return HolidayResponse{}, err
		}
		h.Date = date
		h.Year = date.Year()
	}
	if req.Type != nil {
		if !validType(*req.Type) {
			return HolidayResponse{}, holidayerrors.ErrInvalidHolidayType
		}
		h.Type = *req.Type
	}
	if req.Description != nil {
		h.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		h.UpdatedBy = &actor
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return HolidayResponse{}, mapWriteError(err)
	}

	return mapToResponse(*h), nil
}

func (s *service) Delete(ctx context.Context, holidayID string) error {
	if _, err := uuid.Parse(holidayID); err != nil {
		return holidayerrors.ErrInvalidHolidayID
	}

	deleted, err := s.repo.Delete(ctx, holidayID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return holidayerrors.ErrHolidayNotFound
	}

	s.logger.Info("holiday deleted", zap.String("holiday_id", holidayID))
	return nil
}

func (s *service) DeleteYear(ctx context.Context, year int) (int64, error) {
	if year < 2000 || year > 2200 {
		return 0, holidayerrors.ErrInvalidYear
	}

	deleted, err := s.repo.DeleteByYear(ctx, year)
	if err != nil {
		return 0, err
	}

	s.logger.Info("holidays deleted for year",
		zap.Int("year", year),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

func (s *service) List(ctx context.Context, f Filter) ([]HolidayResponse, error) {
	if f.Type != "" && !validType(f.Type) {
		return nil, holidayerrors.ErrInvalidHolidayType
	}

	holidays, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(holidays), nil
}

func (s *service) GetByID(ctx context.Context, holidayID string) (HolidayResponse, error) {
	if _, err := uuid.Parse(holidayID); err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayID
	}

	h, err := s.repo.FindByID(ctx, holidayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HolidayResponse{}, holidayerrors.ErrHolidayNotFound
		}
		return HolidayResponse{}, err
	}
	return mapToResponse(*h), nil
}

func (s *service) Stats(ctx context.Context) (HolidayStatsResponse, error) {
	now := s.now().UTC()
	year := now.Year()

	total, err := s.repo.CountActiveByYear(ctx, year)
	if err != nil {
		return HolidayStatsResponse{}, err
	}

	byType, err := s.repo.CountByType(ctx, year)
	if err != nil {
		return HolidayStatsResponse{}, err
	}

	byMonth, err := s.repo.CountByMonth(ctx, year)
	if err != nil {
		return HolidayStatsResponse{}, err
	}

	upcoming, err := s.repo.FindUpcoming(ctx, now.Truncate(24*time.Hour), upcomingStatsLimit)
	if err != nil {
		return HolidayStatsResponse{}, err
	}

	return HolidayStatsResponse{
		Year:     year,
		Total:    total,
		ByType:   byType,
		ByMonth:  byMonth,
		Upcoming: mapToListResponse(upcoming),
	}, nil
}
