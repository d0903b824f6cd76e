package invoice_test

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
	"github.com/allwaysenergy/backoffice/internal/services/invoice"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) ListInvoices(ctx context.Context, filter models.DocumentFilter) ([]*models.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *RepoMock) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *RepoMock) CreateInvoice(ctx context.Context, inv models.Invoice) (int64, string, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(int64), args.String(1), args.Error(2)
}

func (m *RepoMock) UpdateInvoice(ctx context.Context, inv models.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *RepoMock) DeleteInvoice(ctx context.Context, id int64) ([]int64, error) {
	args := m.Called(ctx, id)
	quotes, _ := args.Get(0).([]int64)
	return quotes, args.Error(1)
}

func (m *RepoMock) MarkInvoicePaid(ctx context.Context, id int64, paidAt time.Time) error {
	return m.Called(ctx, id, paidAt).Error(0)
}

func (m *RepoMock) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
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

type RendererMock struct {
	mock.Mock
}

func (m *RendererMock) Invoice(inv *models.Invoice, customer *models.Customer) ([]byte, error) {
	args := m.Called(inv, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type fixture struct {
	svc      *invoice.Service
	repo     *RepoMock
	cache    *CacheMock
	pub      *PublisherMock
	renderer *RendererMock
}

func newFixture() fixture {
	f := fixture{repo: new(RepoMock), cache: new(CacheMock), pub: new(PublisherMock), renderer: new(RendererMock)}
	f.svc = invoice.New(slog.New(slog.NewTextHandler(io.Discard, nil)), f.repo, f.cache, f.pub, f.renderer, time.Minute)
	return f
}

func (f fixture) assert(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.pub.AssertExpectations(t)
	f.renderer.AssertExpectations(t)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptr(v int64) *int64 { return &v }

func hvacRequest() models.DummyInvoice {
	return models.DummyInvoice{
		CustomerID: 2,
		Items: []models.DummyLineItem{
			{Description: "Aerotermia 12kW", Quantity: 1, UnitPrice: dec(6500)},
			{Description: "Depósito ACS 200L", Quantity: 1, UnitPrice: dec(900)},
			{Description: "Instalación", Quantity: 1, UnitPrice: dec(1000)},
		},
	}
}

func TestService_CreateComputesTotals(t *testing.T) {
	f := newFixture()

	f.repo.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
		return inv.Subtotal.Equal(dec(8400)) && inv.Tax.Equal(dec(1764)) && inv.Total.Equal(dec(10164)) &&
			inv.Status == models.InvoicePending && inv.QuoteID == nil &&
			inv.CustomerID != nil && *inv.CustomerID == 2
	})).Return(int64(5), "FAC-2024-005", nil).Once()
	f.pub.On("Publish", mock.Anything, models.KindInvoiceCreated, mock.MatchedBy(func(m models.DocumentMessage) bool {
		return m.DocumentID == 5 && m.Number == "FAC-2024-005" && m.Total.Equal(dec(10164))
	})).Return(nil).Once()

	id, number, err := f.svc.Create(context.Background(), hvacRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, "FAC-2024-005", number)
	f.assert(t)
}

func TestService_CreateWithQuoteReference(t *testing.T) {
	f := newFixture()
	req := hvacRequest()
	req.QuoteID = ptr(3)

	f.repo.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
		return inv.QuoteID != nil && *inv.QuoteID == 3
	})).Return(int64(6), "FAC-2024-006", nil).Once()
	f.pub.On("Publish", mock.Anything, models.KindInvoiceCreated, mock.Anything).Return(errors.New("broker down")).Once()

	_, _, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err, "publish failure must not fail the request")
	f.assert(t)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  func() models.DummyInvoice
	}{
		{
			name: "no customer",
			req: func() models.DummyInvoice {
				r := hvacRequest()
				r.CustomerID = 0
				return r
			},
		},
		{
			name: "no items",
			req: func() models.DummyInvoice {
				r := hvacRequest()
				r.Items = nil
				return r
			},
		},
		{
			name: "zero quantity",
			req: func() models.DummyInvoice {
				r := hvacRequest()
				r.Items[0].Quantity = 0
				return r
			},
		},
		{
			name: "bad quote reference",
			req: func() models.DummyInvoice {
				r := hvacRequest()
				r.QuoteID = ptr(-1)
				return r
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, _, err := f.svc.Create(context.Background(), tt.req())
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
			f.assert(t)
		})
	}
}

func TestService_List(t *testing.T) {
	t.Run("status filter is checked", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.List(context.Background(), models.DocumentFilter{Status: "convertido"})
		assert.ErrorIs(t, err, models.ErrValidation)
		f.assert(t)
	})

	t.Run("search is trimmed", func(t *testing.T) {
		f := newFixture()
		want := []*models.Invoice{{ID: 1}}
		f.repo.On("ListInvoices", mock.Anything, models.DocumentFilter{Search: "FAC", Status: "pagada"}).
			Return(want, nil).Once()

		got, err := f.svc.List(context.Background(), models.DocumentFilter{Search: "  FAC ", Status: "pagada"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		f.assert(t)
	})
}

func TestService_Read(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture()
		f.cache.On("Get", mock.Anything, "invoice:4", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
			*args.Get(2).(*models.Invoice) = models.Invoice{ID: 4, Number: "FAC-2024-004"}
		}).Once()

		inv, err := f.svc.Read(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, "FAC-2024-004", inv.Number)
		f.assert(t)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		f := newFixture()
		stored := &models.Invoice{ID: 4}
		f.cache.On("Get", mock.Anything, "invoice:4", mock.Anything).Return(false, nil).Once()
		f.repo.On("GetInvoice", mock.Anything, int64(4)).Return(stored, nil).Once()
		f.cache.On("Set", mock.Anything, "invoice:4", stored, time.Minute).Return(nil).Once()

		inv, err := f.svc.Read(context.Background(), 4)
		require.NoError(t, err)
		assert.Same(t, stored, inv)
		f.assert(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.cache.On("Get", mock.Anything, "invoice:9", mock.Anything).Return(false, errors.New("redis down")).Once()
		f.repo.On("GetInvoice", mock.Anything, int64(9)).Return(nil, models.ErrNotFound).Once()

		_, err := f.svc.Read(context.Background(), 9)
		assert.ErrorIs(t, err, models.ErrNotFound)
		f.assert(t)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("paid invoice is rejected", func(t *testing.T) {
		f := newFixture()
		f.repo.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool { return inv.ID == 2 })).
			Return(models.ErrAlreadyPaid).Once()

		err := f.svc.Update(context.Background(), 2, hvacRequest())
		assert.ErrorIs(t, err, models.ErrAlreadyPaid)
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		f.cache.On("Invalidate", mock.Anything, []string{"invoice:2"}).Return(nil).Once()
		f.repo.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
			return inv.ID == 2 && inv.Total.Equal(dec(10164))
		})).Return(nil).Once()

		require.NoError(t, f.svc.Update(context.Background(), 2, hvacRequest()))
		f.assert(t)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("DeleteInvoice", mock.Anything, int64(7)).Return(nil, models.ErrNotFound).Once()

		err := f.svc.Delete(context.Background(), 7)
		assert.ErrorIs(t, err, models.ErrNotFound)
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("converted quote leaves the cache, redis failure tolerated", func(t *testing.T) {
		f := newFixture()
		f.repo.On("DeleteInvoice", mock.Anything, int64(7)).Return([]int64{2}, nil).Once()
		f.cache.On("Invalidate", mock.Anything, []string{"invoice:7", "quote:2"}).Return(errors.New("redis down")).Once()

		require.NoError(t, f.svc.Delete(context.Background(), 7))
		f.assert(t)
	})
}

// Чтение во время обновления не должно закрепить в Redis прежние итоги.
func TestService_UpdateWithReadInFlight(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	redisCache, err := cache.InitServer(ctx, config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisCache.Close() })

	repo := new(RepoMock)
	svc := invoice.New(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, redisCache, new(PublisherMock), new(RendererMock), time.Minute)

	before := &models.Invoice{ID: 2, Number: "FAC-2024-002", Status: models.InvoicePending,
		Totals: models.Totals{Subtotal: dec(100), Tax: dec(21), Total: dec(121)}}
	after := &models.Invoice{ID: 2, Number: "FAC-2024-002", Status: models.InvoicePending,
		Totals: models.Totals{Subtotal: dec(8400), Tax: dec(1764), Total: dec(10164)}}

	repo.On("GetInvoice", mock.Anything, int64(2)).Return(before, nil).Once()
	repo.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool { return inv.ID == 2 })).
		Run(func(mock.Arguments) {
			_, err := svc.Read(ctx, 2)
			require.NoError(t, err)
		}).
		Return(nil).Once()
	repo.On("GetInvoice", mock.Anything, int64(2)).Return(after, nil).Once()

	require.NoError(t, svc.Update(ctx, 2, hvacRequest()))

	got, err := svc.Read(ctx, 2)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(dec(10164)), "total %s", got.Total)
	repo.AssertExpectations(t)
}

func TestService_MarkPaid(t *testing.T) {
	t.Run("success publishes invoice.paid", func(t *testing.T) {
		f := newFixture()
		f.repo.On("MarkInvoicePaid", mock.Anything, int64(3), mock.AnythingOfType("time.Time")).Return(nil).Once()
		f.cache.On("Invalidate", mock.Anything, []string{"invoice:3"}).Return(nil).Once()
		f.repo.On("GetInvoice", mock.Anything, int64(3)).Return(&models.Invoice{
			ID: 3, Number: "FAC-2024-003", CustomerID: ptr(1), Totals: models.Totals{Total: dec(121)},
		}, nil).Once()
		f.pub.On("Publish", mock.Anything, models.KindInvoicePaid, mock.MatchedBy(func(m models.DocumentMessage) bool {
			return m.DocumentID == 3 && m.Number == "FAC-2024-003" && m.Total.Equal(dec(121))
		})).Return(nil).Once()

		require.NoError(t, f.svc.MarkPaid(context.Background(), 3))
		f.assert(t)
	})

	t.Run("already paid", func(t *testing.T) {
		f := newFixture()
		f.repo.On("MarkInvoicePaid", mock.Anything, int64(3), mock.Anything).Return(models.ErrAlreadyPaid).Once()

		err := f.svc.MarkPaid(context.Background(), 3)
		assert.ErrorIs(t, err, models.ErrAlreadyPaid)
		f.assert(t)
	})
}

func TestService_Render(t *testing.T) {
	inv := &models.Invoice{ID: 1, Number: "FAC-2024-001", CustomerID: ptr(2)}

	t.Run("with customer", func(t *testing.T) {
		f := newFixture()
		customer := &models.Customer{ID: 2, Name: "María López"}
		f.cache.On("Get", mock.Anything, "invoice:1", mock.Anything).Return(false, nil).Once()
		f.repo.On("GetInvoice", mock.Anything, int64(1)).Return(inv, nil).Once()
		f.cache.On("Set", mock.Anything, "invoice:1", inv, time.Minute).Return(nil).Once()
		f.repo.On("GetCustomer", mock.Anything, int64(2)).Return(customer, nil).Once()
		f.renderer.On("Invoice", inv, customer).Return([]byte("<html></html>"), nil).Once()

		out, err := f.svc.Render(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", string(out))
		f.assert(t)
	})

	t.Run("customer removed", func(t *testing.T) {
		f := newFixture()
		f.cache.On("Get", mock.Anything, "invoice:1", mock.Anything).Return(false, nil).Once()
		f.repo.On("GetInvoice", mock.Anything, int64(1)).Return(inv, nil).Once()
		f.cache.On("Set", mock.Anything, "invoice:1", inv, time.Minute).Return(nil).Once()
		f.repo.On("GetCustomer", mock.Anything, int64(2)).Return(nil, models.ErrNotFound).Once()
		f.renderer.On("Invoice", inv, (*models.Customer)(nil)).Return([]byte("ok"), nil).Once()

		_, err := f.svc.Render(context.Background(), 1)
		require.NoError(t, err)
		f.assert(t)
	})

	t.Run("invoice not found", func(t *testing.T) {
		f := newFixture()
		f.cache.On("Get", mock.Anything, "invoice:1", mock.Anything).Return(false, nil).Once()
		f.repo.On("GetInvoice", mock.Anything, int64(1)).Return(nil, models.ErrNotFound).Once()

		_, err := f.svc.Render(context.Background(), 1)
		assert.ErrorIs(t, err, models.ErrNotFound)
		f.assert(t)
	})
}
