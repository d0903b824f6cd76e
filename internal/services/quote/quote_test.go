package quote_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allwaysenergy/backoffice/internal/cache"
	"github.com/allwaysenergy/backoffice/internal/config"
	"github.com/allwaysenergy/backoffice/internal/models"
	"github.com/allwaysenergy/backoffice/internal/services/quote"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) ListQuotes(ctx context.Context, filter models.DocumentFilter) ([]*models.Quote, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quote), args.Error(1)
}

func (m *RepoMock) GetQuote(ctx context.Context, id int64) (*models.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *RepoMock) CreateQuote(ctx context.Context, q models.Quote) (int64, string, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.String(1), args.Error(2)
}

func (m *RepoMock) UpdateQuote(ctx context.Context, q models.Quote) error {
	return m.Called(ctx, q).Error(0)
}

func (m *RepoMock) DeleteQuote(ctx context.Context, id int64) ([]int64, error) {
	args := m.Called(ctx, id)
	invoices, _ := args.Get(0).([]int64)
	return invoices, args.Error(1)
}

func (m *RepoMock) ConvertQuote(ctx context.Context, id int64) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

type fixture struct {
	svc   *quote.Service
	repo  *RepoMock
	cache *CacheMock
	pub   *PublisherMock
}

func newFixture() fixture {
	f := fixture{repo: new(RepoMock), cache: new(CacheMock), pub: new(PublisherMock)}
	f.svc = quote.New(slog.New(slog.NewTextHandler(io.Discard, nil)), f.repo, f.cache, f.pub, time.Minute)
	return f
}

func (f fixture) assert(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.pub.AssertExpectations(t)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptr(v int64) *int64 { return &v }

func solarRequest() models.DummyQuote {
	return models.DummyQuote{
		CustomerID: 1,
		Items: []models.DummyLineItem{
			{Description: "Panel Solar 450W Monocristalino", Quantity: 12, UnitPrice: dec(250)},
			{Description: "Inversor String 5kW", Quantity: 1, UnitPrice: dec(800)},
			{Description: "Instalación y mano de obra", Quantity: 1, UnitPrice: dec(1200)},
		},
		Notes: "Instalación en tejado sur, óptima orientación",
	}
}

func TestService_CreateComputesTotals(t *testing.T) {
	f := newFixture()

	f.repo.On("CreateQuote", mock.Anything, mock.MatchedBy(func(q models.Quote) bool {
		return q.Subtotal.Equal(dec(5000)) && q.Tax.Equal(dec(1050)) && q.Total.Equal(dec(6050)) &&
			q.Status == models.QuotePending && len(q.Items) == 3 && q.Items[0].Total.Equal(dec(3000)) &&
			q.CustomerID != nil && *q.CustomerID == 1
	})).Return(int64(1), "PRES-2024-001", nil).Once()
	f.pub.On("Publish", mock.Anything, models.KindQuoteCreated, mock.MatchedBy(func(m models.DocumentMessage) bool {
		return m.DocumentID == 1 && m.Number == "PRES-2024-001" && m.Total.Equal(dec(6050)) && m.MessageID != ""
	})).Return(nil).Once()

	id, number, err := f.svc.Create(context.Background(), solarRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "PRES-2024-001", number)
	f.assert(t)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  func() models.DummyQuote
	}{
		{
			name: "negative price",
			req: func() models.DummyQuote {
				r := solarRequest()
				r.Items[1].UnitPrice = dec(-5)
				return r
			},
		},
		{
			name: "no items",
			req: func() models.DummyQuote {
				r := solarRequest()
				r.Items = nil
				return r
			},
		},
		{
			name: "no customer",
			req: func() models.DummyQuote {
				r := solarRequest()
				r.CustomerID = 0
				return r
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, _, err := f.svc.Create(context.Background(), tt.req())
			assert.ErrorIs(t, err, models.ErrValidation)
			f.repo.AssertNotCalled(t, "CreateQuote", mock.Anything, mock.Anything)
		})
	}
}

func TestService_CreatePublishFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.repo.On("CreateQuote", mock.Anything, mock.Anything).Return(int64(3), "PRES-2024-003", nil).Once()
	f.pub.On("Publish", mock.Anything, models.KindQuoteCreated, mock.Anything).Return(errors.New("broker down")).Once()

	id, _, err := f.svc.Create(context.Background(), solarRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	f.assert(t)
}

func TestService_Read(t *testing.T) {
	stored := &models.Quote{ID: 1, Number: "PRES-2024-001", Status: models.QuotePending}

	tests := []struct {
		name       string
		setupMocks func(f fixture)
		wantErr    error
	}{
		{
			name: "cache hit",
			setupMocks: func(f fixture) {
				f.cache.On("Get", mock.Anything, "quote:1", mock.Anything).
					Run(func(args mock.Arguments) {
						*args.Get(2).(*models.Quote) = *stored
					}).Return(true, nil).Once()
			},
		},
		{
			name: "cache miss",
			setupMocks: func(f fixture) {
				f.cache.On("Get", mock.Anything, "quote:1", mock.Anything).Return(false, nil).Once()
				f.repo.On("GetQuote", mock.Anything, int64(1)).Return(stored, nil).Once()
				f.cache.On("Set", mock.Anything, "quote:1", stored, time.Minute).Return(nil).Once()
			},
		},
		{
			name: "cache failure falls back to store",
			setupMocks: func(f fixture) {
				f.cache.On("Get", mock.Anything, "quote:1", mock.Anything).Return(false, errors.New("redis down")).Once()
				f.repo.On("GetQuote", mock.Anything, int64(1)).Return(stored, nil).Once()
				f.cache.On("Set", mock.Anything, "quote:1", stored, time.Minute).Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "not found",
			setupMocks: func(f fixture) {
				f.cache.On("Get", mock.Anything, "quote:1", mock.Anything).Return(false, nil).Once()
				f.repo.On("GetQuote", mock.Anything, int64(1)).Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			q, err := f.svc.Read(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "PRES-2024-001", q.Number)
			}
			f.assert(t)
		})
	}
}

func TestService_UpdateConvertedIsRejected(t *testing.T) {
	f := newFixture()
	f.repo.On("UpdateQuote", mock.Anything, mock.MatchedBy(func(q models.Quote) bool { return q.ID == 2 })).
		Return(models.ErrAlreadyConverted).Once()

	err := f.svc.Update(context.Background(), 2, solarRequest())
	assert.ErrorIs(t, err, models.ErrAlreadyConverted)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	f.assert(t)
}

func TestService_ConvertToInvoice(t *testing.T) {
	f := newFixture()
	customer := int64(1)
	quoteID := int64(1)
	inv := &models.Invoice{
		ID:         5,
		CustomerID: &customer,
		QuoteID:    &quoteID,
		Number:     "FAC-2024-002",
		Status:     models.InvoicePending,
		Totals:     models.Totals{Subtotal: dec(5000), Tax: dec(1050), Total: dec(6050)},
	}
	f.repo.On("ConvertQuote", mock.Anything, int64(1)).Return(inv, nil).Once()
	f.cache.On("Invalidate", mock.Anything, []string{"quote:1"}).Return(nil).Once()
	f.pub.On("Publish", mock.Anything, models.KindQuoteConverted, mock.MatchedBy(func(m models.DocumentMessage) bool {
		return m.DocumentID == 1 && m.Number == "FAC-2024-002"
	})).Return(nil).Once()
	f.pub.On("Publish", mock.Anything, models.KindInvoiceCreated, mock.MatchedBy(func(m models.DocumentMessage) bool {
		return m.DocumentID == 5
	})).Return(nil).Once()

	got, err := f.svc.ConvertToInvoice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, inv, got)
	f.assert(t)
}

func TestService_ConvertTwice(t *testing.T) {
	f := newFixture()
	f.repo.On("ConvertQuote", mock.Anything, int64(1)).Return(nil, models.ErrAlreadyConverted).Once()

	_, err := f.svc.ConvertToInvoice(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrAlreadyConverted)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	f.assert(t)
}

func TestService_ListRejectsUnknownStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.List(context.Background(), models.DocumentFilter{Status: "pagada"})
	assert.ErrorIs(t, err, models.ErrValidation)

	f.repo.On("ListQuotes", mock.Anything, models.DocumentFilter{Search: "PRES", Status: "convertido"}).
		Return([]*models.Quote{}, nil).Once()
	list, err := f.svc.List(context.Background(), models.DocumentFilter{Search: " PRES ", Status: "convertido"})
	require.NoError(t, err)
	assert.Empty(t, list)
	f.assert(t)
}

func TestService_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("DeleteQuote", mock.Anything, int64(4)).Return(nil, models.ErrNotFound).Once()

		assert.ErrorIs(t, f.svc.Delete(context.Background(), 4), models.ErrNotFound)
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("detached invoices leave the cache", func(t *testing.T) {
		f := newFixture()
		f.repo.On("DeleteQuote", mock.Anything, int64(4)).Return([]int64{5}, nil).Once()
		f.cache.On("Invalidate", mock.Anything, []string{"quote:4", "invoice:5"}).Return(nil).Once()

		require.NoError(t, f.svc.Delete(context.Background(), 4))
		f.assert(t)
	})
}

// Чтение, попавшее между началом удаления и его завершением, не должно
// оставить удалённое предложение в Redis.
func TestService_DeleteWithReadInFlight(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	redisCache, err := cache.InitServer(ctx, config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisCache.Close() })

	repo := new(RepoMock)
	svc := quote.New(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, redisCache, new(PublisherMock), time.Minute)

	stored := &models.Quote{ID: 7, Number: "PRES-2024-007", Status: models.QuotePending, InvoiceID: ptr(9)}
	require.NoError(t, redisCache.Set(ctx, cache.InvoiceKey(9), models.Invoice{ID: 9, QuoteID: ptr(7)}, time.Minute))

	repo.On("GetQuote", mock.Anything, int64(7)).Return(stored, nil).Once()
	repo.On("DeleteQuote", mock.Anything, int64(7)).
		Run(func(mock.Arguments) {
			got, err := svc.Read(ctx, 7)
			require.NoError(t, err)
			assert.Equal(t, "PRES-2024-007", got.Number)
		}).
		Return([]int64{9}, nil).Once()
	repo.On("GetQuote", mock.Anything, int64(7)).Return(nil, models.ErrNotFound).Once()

	require.NoError(t, svc.Delete(ctx, 7))

	_, err = svc.Read(ctx, 7)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, mr.Exists(cache.QuoteKey(7)))
	assert.False(t, mr.Exists(cache.InvoiceKey(9)))
	repo.AssertExpectations(t)
}
