package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/internal/domain/enum"
	"github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/pkg/lookup"
	"github.com/sangkips/stayledger-api/pkg/pagination"
)

type fakeHostRepo struct {
	hosts      map[uuid.UUID]*entity.Host
	properties map[uuid.UUID]int64
	searches   int
}

func newFakeHostRepo() *fakeHostRepo {
	return &fakeHostRepo{hosts: map[uuid.UUID]*entity.Host{}, properties: map[uuid.UUID]int64{}}
}

func (r *fakeHostRepo) Create(_ context.Context, h *entity.Host) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.hosts[h.ID] = h
	return nil
}
func (r *fakeHostRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Host, error) {
	return r.hosts[id], nil
}
func (r *fakeHostRepo) Update(_ context.Context, h *entity.Host) error { r.hosts[h.ID] = h; return nil }
func (r *fakeHostRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.hosts, id)
	return nil
}
func (r *fakeHostRepo) List(_ context.Context, _ *pagination.Params) ([]entity.Host, int64, error) {
	var out []entity.Host
	for _, h := range r.hosts {
		out = append(out, *h)
	}
	return out, int64(len(out)), nil
}
func (r *fakeHostRepo) Search(_ context.Context, q string, _ int) ([]entity.Host, error) {
	r.searches++
	var out []entity.Host
	for _, h := range r.hosts {
		if strings.Contains(strings.ToLower(h.Name), strings.ToLower(q)) {
			out = append(out, *h)
		}
	}
	return out, nil
}
func (r *fakeHostRepo) CountProperties(_ context.Context, id uuid.UUID) (int64, error) {
	return r.properties[id], nil
}

type fakePropertyRepo struct {
	properties map[uuid.UUID]*entity.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: map[uuid.UUID]*entity.Property{}}
}

func (r *fakePropertyRepo) Create(_ context.Context, p *entity.Property) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.properties[p.ID] = p
	return nil
}
func (r *fakePropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Property, error) {
	return r.properties[id], nil
}
func (r *fakePropertyRepo) GetByCode(_ context.Context, code string) (*entity.Property, error) {
	for _, p := range r.properties {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakePropertyRepo) Update(_ context.Context, p *entity.Property) error {
	r.properties[p.ID] = p
	return nil
}
func (r *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.properties, id)
	return nil
}
func (r *fakePropertyRepo) List(_ context.Context, _ *repository.PropertyFilterParams) ([]entity.Property, int64, error) {
	var out []entity.Property
	for _, p := range r.properties {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}
func (r *fakePropertyRepo) Search(_ context.Context, _ string, _ int) ([]entity.Property, error) {
	return nil, nil
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*entity.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[uuid.UUID]*entity.Client{}}
}

func (r *fakeClientRepo) Create(_ context.Context, c *entity.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clients[c.ID] = c
	return nil
}
func (r *fakeClientRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Client, error) {
	return r.clients[id], nil
}
func (r *fakeClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.clients[c.ID] = c
	return nil
}
func (r *fakeClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}
func (r *fakeClientRepo) List(_ context.Context, _ *pagination.Params) ([]entity.Client, int64, error) {
	return nil, 0, nil
}
func (r *fakeClientRepo) Search(_ context.Context, _ string, _ int) ([]entity.Client, error) {
	return nil, nil
}

type fakePincodeRepo struct {
	pins map[string]entity.Pincode
}

func newFakePincodeRepo(pins ...entity.Pincode) *fakePincodeRepo {
	r := &fakePincodeRepo{pins: map[string]entity.Pincode{}}
	for _, p := range pins {
		r.pins[p.Code] = p
	}
	return r
}

func (r *fakePincodeRepo) GetByCode(_ context.Context, code string) (*entity.Pincode, error) {
	if p, ok := r.pins[code]; ok {
		return &p, nil
	}
	return nil, nil
}
func (r *fakePincodeRepo) Search(_ context.Context, q string, _ int) ([]entity.Pincode, error) {
	var out []entity.Pincode
	for _, p := range r.pins {
		if strings.HasPrefix(p.Code, q) {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakePincodeRepo) Upsert(_ context.Context, pins []entity.Pincode) error {
	for _, p := range pins {
		r.pins[p.Code] = p
	}
	return nil
}

// fakeReservationRepo applies the same overlap filter as the SQL query. The
// checked writes hold mu across check and insert like the row lock does.
type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*entity.Reservation
	properties   *fakePropertyRepo
	created      int64
}

func newFakeReservationRepo(properties *fakePropertyRepo) *fakeReservationRepo {
	return &fakeReservationRepo{reservations: map[uuid.UUID]*entity.Reservation{}, properties: properties}
}

func (r *fakeReservationRepo) CreateChecked(_ context.Context, res *entity.Reservation, q repository.OverlapQuery) ([]entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conflicts := r.overlapping(q); len(conflicts) > 0 {
		return conflicts, nil
	}
	for _, existing := range r.reservations {
		if existing.ReservationNo == res.ReservationNo {
			return nil, repository.ErrDuplicateNumber
		}
	}
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	r.created++
	cp := *res
	r.reservations[res.ID] = &cp
	return nil, nil
}
func (r *fakeReservationRepo) UpdateChecked(_ context.Context, res *entity.Reservation, q repository.OverlapQuery) ([]entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conflicts := r.overlapping(q); len(conflicts) > 0 {
		return conflicts, nil
	}
	cp := *res
	r.reservations[res.ID] = &cp
	return nil, nil
}
func (r *fakeReservationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	if r.properties != nil {
		cp.Property = r.properties.properties[cp.PropertyID]
	}
	return &cp, nil
}
func (r *fakeReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reservations, id)
	return nil
}
func (r *fakeReservationRepo) List(_ context.Context, _ *repository.ReservationFilterParams) ([]entity.Reservation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Reservation
	for _, res := range r.reservations {
		out = append(out, *res)
	}
	return out, int64(len(out)), nil
}
func (r *fakeReservationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.reservations[id]; ok {
		res.Status = status
	}
	return nil
}
func (r *fakeReservationRepo) GetNextReservationNumber(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created + 1, nil
}
func (r *fakeReservationRepo) FindOverlapping(_ context.Context, q repository.OverlapQuery) ([]entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlapping(q), nil
}

func (r *fakeReservationRepo) overlapping(q repository.OverlapQuery) []entity.Reservation {
	var out []entity.Reservation
	for _, res := range r.reservations {
		if res.PropertyID != q.PropertyID || res.Status == enum.ReservationStatusCancelled {
			continue
		}
		if q.ExcludeID != nil && res.ID == *q.ExcludeID {
			continue
		}
		if !res.CheckInDate.Before(q.End) || !res.CheckOutDate.After(q.Start) {
			continue
		}
		for _, rt := range q.RoomTypes {
			if strings.EqualFold(strings.TrimSpace(res.RoomType), rt) {
				out = append(out, *res)
				break
			}
		}
	}
	return out
}

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*entity.Invoice
	archived map[uuid.UUID]string
	created  int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[uuid.UUID]*entity.Invoice{}, archived: map[uuid.UUID]string{}}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	for _, existing := range r.invoices {
		if existing.InvoiceNo == inv.InvoiceNo {
			return repository.ErrDuplicateNumber
		}
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.created++
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}
func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}
func (r *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}
func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}
func (r *fakeInvoiceRepo) List(_ context.Context, _ *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return nil, 0, nil
}
func (r *fakeInvoiceRepo) GetNextInvoiceNumber(_ context.Context) (int64, error) {
	return r.created + 1, nil
}
func (r *fakeInvoiceRepo) MarkArchived(_ context.Context, id uuid.UUID, key string, at time.Time) error {
	r.archived[id] = key
	if inv, ok := r.invoices[id]; ok {
		inv.ArchiveKey = &key
		inv.ArchivedAt = &at
	}
	return nil
}

type memoryCache struct {
	entries     map[string][]lookup.Item
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]lookup.Item{}}
}

func (c *memoryCache) Get(_ context.Context, entity, query string) ([]lookup.Item, bool) {
	items, ok := c.entries[entity+":"+query]
	return items, ok
}
func (c *memoryCache) Set(_ context.Context, entity, query string, items []lookup.Item) {
	c.entries[entity+":"+query] = items
}
func (c *memoryCache) Invalidate(_ context.Context, entity string) {
	c.invalidated = append(c.invalidated, entity)
	for k := range c.entries {
		if strings.HasPrefix(k, entity+":") {
			delete(c.entries, k)
		}
	}
}

type memoryStore struct {
	objects map[string][]byte
}

func (s *memoryStore) Put(_ context.Context, name string, body []byte, _ string) (string, error) {
	key := "invoices/" + name
	s.objects[key] = body
	return key, nil
}
