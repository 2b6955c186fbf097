package service

import (
	"context"
	"math/rand"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/catalog"
	"mitr-be/pkg/devices"

	"github.com/google/uuid"
)

type IDeviceService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.DeviceResponse, error)
	Connect(ctx context.Context, userId uuid.UUID, deviceId string) (*dto.DeviceResponse, error)
	Disconnect(ctx context.Context, userId uuid.UUID, deviceId string) (*dto.DeviceResponse, error)
	Sync(ctx context.Context, userId uuid.UUID) (*dto.DeviceAnalyticsResponse, error)
	Analytics(ctx context.Context, userId uuid.UUID) (*dto.DeviceAnalyticsResponse, error)
}

// globalRand uses the package source, which is safe for concurrent use.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

type deviceService struct {
	uowFactory unitofwork.RepositoryFactory
	catalog    *catalog.Catalog
	rand       devices.Rand
	now        func() time.Time
}

func NewDeviceService(uowFactory unitofwork.RepositoryFactory, cat *catalog.Catalog) IDeviceService {
	return &deviceService{
		uowFactory: uowFactory,
		catalog:    cat,
		rand:       globalRand{},
		now:        time.Now,
	}
}

func (s *deviceService) List(ctx context.Context, userId uuid.UUID) ([]*dto.DeviceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conns, err := uow.DeviceRepository().FindConnections(ctx, userId)
	if err != nil {
		return nil, err
	}

	byDevice := make(map[string]*entity.DeviceConnection, len(conns))
	for _, c := range conns {
		byDevice[c.DeviceId] = c
	}

	out := make([]*dto.DeviceResponse, 0, len(s.catalog.Devices))
	for _, d := range s.catalog.Devices {
		out = append(out, toDeviceResponse(d, byDevice[d.ID]))
	}
	return out, nil
}

func (s *deviceService) setStatus(ctx context.Context, userId uuid.UUID, deviceId, status string) (*dto.DeviceResponse, error) {
	device, ok := s.catalog.Device(deviceId)
	if !ok {
		return nil, apperror.NotFound("device not found")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DeviceRepository()

	conns, err := repo.FindConnections(ctx, userId)
	if err != nil {
		return nil, err
	}
	conn := &entity.DeviceConnection{UserId: userId, DeviceId: deviceId}
	for _, c := range conns {
		if c.DeviceId == deviceId {
			conn = c
			break
		}
	}
	conn.Status = status

	if err := repo.SaveConnection(ctx, conn); err != nil {
		return nil, err
	}
	return toDeviceResponse(device, conn), nil
}

func (s *deviceService) Connect(ctx context.Context, userId uuid.UUID, deviceId string) (*dto.DeviceResponse, error) {
	return s.setStatus(ctx, userId, deviceId, entity.DeviceConnected)
}

func (s *deviceService) Disconnect(ctx context.Context, userId uuid.UUID, deviceId string) (*dto.DeviceResponse, error) {
	return s.setStatus(ctx, userId, deviceId, entity.DeviceDisconnected)
}

// window loads the user's last days, seeding the demo week on first access.
func (s *deviceService) window(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) ([]devices.Day, error) {
	rows, err := uow.DeviceRepository().RecentMetrics(ctx, userId, devices.WindowDays)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		days := make([]devices.Day, 0, len(rows))
		for _, m := range rows {
			days = append(days, metricToDay(m))
		}
		return days, nil
	}

	demo := devices.DemoWeek()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.DeviceRepository()
	for _, d := range demo {
		if err := repo.AppendMetric(ctx, dayToMetric(userId, d, s.now())); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return demo, nil
}

func (s *deviceService) Sync(ctx context.Context, userId uuid.UUID) (*dto.DeviceAnalyticsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DeviceRepository()

	connected, err := repo.CountConnected(ctx, userId)
	if err != nil {
		return nil, err
	}
	if connected == 0 {
		return nil, apperror.BadRequest("connect at least one device before syncing")
	}

	window, err := s.window(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	now := s.now()
	window = devices.Append(window, s.rand)
	next := window[len(window)-1]
	if err := repo.AppendMetric(ctx, dayToMetric(userId, next, now)); err != nil {
		return nil, err
	}

	conns, err := repo.FindConnections(ctx, userId)
	if err != nil {
		return nil, err
	}
	for _, c := range conns {
		if c.Status != entity.DeviceConnected {
			continue
		}
		c.LastSync = &now
		if err := repo.SaveConnection(ctx, c); err != nil {
			return nil, err
		}
	}

	return &dto.DeviceAnalyticsResponse{Series: window, Averages: devices.Average(window)}, nil
}

func (s *deviceService) Analytics(ctx context.Context, userId uuid.UUID) (*dto.DeviceAnalyticsResponse, error) {
	window, err := s.window(ctx, s.uowFactory.NewUnitOfWork(ctx), userId)
	if err != nil {
		return nil, err
	}
	return &dto.DeviceAnalyticsResponse{Series: window, Averages: devices.Average(window)}, nil
}

func toDeviceResponse(d catalog.Device, c *entity.DeviceConnection) *dto.DeviceResponse {
	resp := &dto.DeviceResponse{Device: d, Status: entity.DeviceDisconnected}
	if c != nil {
		resp.Status = c.Status
		resp.LastSync = c.LastSync
	}
	return resp
}

func metricToDay(m *entity.DeviceMetric) devices.Day {
	return devices.Day{
		Steps:     m.Steps,
		Heart:     m.Heart,
		Sleep:     m.Sleep,
		Hydration: m.Hydration,
		Stress:    m.Stress,
	}
}

func dayToMetric(userId uuid.UUID, d devices.Day, at time.Time) *entity.DeviceMetric {
	return &entity.DeviceMetric{
		Id:         uuid.New(),
		UserId:     userId,
		Steps:      d.Steps,
		Heart:      d.Heart,
		Sleep:      d.Sleep,
		Hydration:  d.Hydration,
		Stress:     d.Stress,
		RecordedAt: at,
	}
}
