package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/invoicepdf"
	"github.com/sangkips/stayledger-api/pkg/pricing"
)

type invoiceFixture struct {
	svc         *InvoiceService
	invoices    *fakeInvoiceRepo
	reservation *entity.Reservation
	localClient *entity.Client
	otherClient *entity.Client
}

func newInvoiceFixture(t *testing.T, store DocumentStore) *invoiceFixture {
	t.Helper()
	properties := newFakePropertyRepo()
	reservations := newFakeReservationRepo(properties)
	clients := newFakeClientRepo()
	invoices := newFakeInvoiceRepo()

	property := &entity.Property{ID: uuid.New(), Name: "Hill Retreat", Code: "HR", StateCode: "29"}
	properties.properties[property.ID] = property

	local := &entity.Client{ID: uuid.New(), Name: "Bengaluru Works", BillingStateCode: "29"}
	other := &entity.Client{ID: uuid.New(), Name: "Mumbai Corp", BillingStateCode: "27"}
	clients.clients[local.ID] = local
	clients.clients[other.ID] = other

	reservation := &entity.Reservation{
		ID:             uuid.New(),
		ReservationNo:  "RES-000007",
		PropertyID:     property.ID,
		ClientID:       &other.ID,
		GuestName:      "Ravi K",
		ChargeableDays: 2,
	}
	reservations.reservations[reservation.ID] = reservation

	supplier := invoicepdf.Party{Name: "StayLedger Hospitality", StateCode: "27"}
	return &invoiceFixture{
		svc:         NewInvoiceService(invoices, reservations, clients, supplier, store),
		invoices:    invoices,
		reservation: reservation,
		localClient: local,
		otherClient: other,
	}
}

func sampleItems() []pricing.LineItem {
	return []pricing.LineItem{
		{Description: "Room charges", Tariff: 2000, Tax: 240, Total: 2240},
		{Description: "Laundry", Tariff: 500, Tax: 90, Total: 590},
	}
}

func TestCreateInvoiceDerivesTaxMode(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input func(f *invoiceFixture) *InvoiceInput
		mode  pricing.TaxMode
		sgst  float64
		igst  float64
	}{
		{
			name: "reservation property state differs from client",
			input: func(f *invoiceFixture) *InvoiceInput {
				return &InvoiceInput{ReservationID: &f.reservation.ID, Items: sampleItems()}
			},
			mode: pricing.TaxModeIGST,
			igst: 330,
		},
		{
			name: "client in supplier state without reservation",
			input: func(f *invoiceFixture) *InvoiceInput {
				return &InvoiceInput{ClientID: &f.otherClient.ID, Items: sampleItems()}
			},
			mode: pricing.TaxModeSplit,
			sgst: 165,
		},
		{
			name: "explicit mode wins",
			input: func(f *invoiceFixture) *InvoiceInput {
				return &InvoiceInput{ClientID: &f.localClient.ID, DisplayTaxes: "igst", Items: sampleItems()}
			},
			mode: pricing.TaxModeIGST,
			igst: 330,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvoiceFixture(t, nil)
			inv, err := f.svc.CreateInvoice(ctx, tt.input(f))
			if err != nil {
				t.Fatalf("CreateInvoice: %v", err)
			}
			if inv.DisplayTaxes != tt.mode {
				t.Errorf("DisplayTaxes = %q, want %q", inv.DisplayTaxes, tt.mode)
			}
			if inv.SGST != tt.sgst || inv.CGST != tt.sgst || inv.IGST != tt.igst {
				t.Errorf("split = %v/%v/%v", inv.SGST, inv.CGST, inv.IGST)
			}
			if inv.TotalWithoutGST != 2500 || inv.TotalTax != 330 || inv.TotalWithGST != 2830 {
				t.Errorf("totals = %v/%v/%v", inv.TotalWithoutGST, inv.TotalTax, inv.TotalWithGST)
			}
			if inv.InvoiceNo != "INV-000001" {
				t.Errorf("InvoiceNo = %q", inv.InvoiceNo)
			}
			if len(inv.Items) != 2 || inv.Items[1].Position != 2 {
				t.Errorf("items = %+v", inv.Items)
			}
		})
	}
}

func TestCreateInvoiceBillsReservationClient(t *testing.T) {
	f := newInvoiceFixture(t, nil)

	inv, err := f.svc.CreateInvoice(context.Background(), &InvoiceInput{ReservationID: &f.reservation.ID, Items: sampleItems()})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.ClientID == nil || *inv.ClientID != f.otherClient.ID {
		t.Errorf("ClientID = %v", inv.ClientID)
	}
	if inv.BillToName != "Mumbai Corp" || inv.PlaceOfSupply != "27" {
		t.Errorf("bill to = %q / %q", inv.BillToName, inv.PlaceOfSupply)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	f := newInvoiceFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input *InvoiceInput
	}{
		{"no items", &InvoiceInput{BillToName: "Walk-in"}},
		{"unknown mode", &InvoiceInput{BillToName: "Walk-in", DisplayTaxes: "VAT", Items: sampleItems()}},
		{"blank description", &InvoiceInput{BillToName: "Walk-in", Items: []pricing.LineItem{{Tariff: 10}}}},
		{"no bill-to", &InvoiceInput{Items: sampleItems()}},
		{"bad date", &InvoiceInput{BillToName: "Walk-in", InvoiceDate: "31/02/2026", Items: sampleItems()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateInvoice(ctx, tt.input)
			if code := appCode(t, err); code != http.StatusUnprocessableEntity {
				t.Errorf("code = %d, want 422", code)
			}
		})
	}
}

func TestArchiveInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("storage disabled", func(t *testing.T) {
		f := newInvoiceFixture(t, nil)
		inv, err := f.svc.CreateInvoice(ctx, &InvoiceInput{BillToName: "Walk-in", Items: sampleItems()})
		if err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
		_, err = f.svc.ArchiveInvoice(ctx, inv.ID)
		if !errors.Is(err, apperror.ErrStorageDisabled) {
			t.Errorf("err = %v, want ErrStorageDisabled", err)
		}
	})

	t.Run("uploads pdf", func(t *testing.T) {
		store := &memoryStore{objects: map[string][]byte{}}
		f := newInvoiceFixture(t, store)
		inv, err := f.svc.CreateInvoice(ctx, &InvoiceInput{BillToName: "Walk-in", Items: sampleItems()})
		if err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
		archived, err := f.svc.ArchiveInvoice(ctx, inv.ID)
		if err != nil {
			t.Fatalf("ArchiveInvoice: %v", err)
		}
		if archived.ArchiveKey == nil || *archived.ArchiveKey != "invoices/INV-000001.pdf" {
			t.Errorf("ArchiveKey = %v", archived.ArchiveKey)
		}
		body := store.objects["invoices/INV-000001.pdf"]
		if !bytes.HasPrefix(body, []byte("%PDF")) {
			t.Errorf("stored object is not a PDF")
		}
	})
}

func TestUpdateInvoiceClearsArchive(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{}}
	f := newInvoiceFixture(t, store)
	ctx := context.Background()

	inv, err := f.svc.CreateInvoice(ctx, &InvoiceInput{BillToName: "Walk-in", Items: sampleItems()})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if _, err := f.svc.ArchiveInvoice(ctx, inv.ID); err != nil {
		t.Fatalf("ArchiveInvoice: %v", err)
	}

	updated, err := f.svc.UpdateInvoice(ctx, inv.ID, &InvoiceInput{
		BillToName:   "Walk-in",
		DisplayTaxes: "SGST & CGST",
		Items:        []pricing.LineItem{{Description: "Room", Tariff: 1000, Tax: 50.5, Total: 1050.5}},
	})
	if err != nil {
		t.Fatalf("UpdateInvoice: %v", err)
	}
	if updated.ArchiveKey != nil {
		t.Errorf("archive key kept after edit")
	}
	if updated.SGST != 25.25 || updated.TotalWithGST != 1050.5 || len(updated.Items) != 1 {
		t.Errorf("updated = %+v", updated)
	}
	if updated.InvoiceNo != inv.InvoiceNo {
		t.Errorf("number changed on update")
	}
}

func TestInvoiceTotalsMatchStoredRows(t *testing.T) {
	f := newInvoiceFixture(t, nil)

	items := []pricing.LineItem{
		{Description: "Water", Tariff: 10.004, Tax: 0.004, Total: 10.008},
		{Description: "Tea", Tariff: 10.004, Tax: 0.004, Total: 10.008},
		{Description: "Snacks", Tariff: 10.004, Tax: 0.004, Total: 10.008},
	}
	inv, err := f.svc.CreateInvoice(context.Background(), &InvoiceInput{ClientID: &f.localClient.ID, Items: items})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	var tariff, tax, total float64
	for _, item := range inv.Items {
		tariff += item.Tariff
		tax += item.Tax
		total += item.Total
	}
	if inv.TotalTax != pricing.Round2(tax) || inv.TotalTax != 0 {
		t.Errorf("TotalTax = %v, rows sum to %v", inv.TotalTax, tax)
	}
	if inv.TotalWithoutGST != pricing.Round2(tariff) || inv.TotalWithGST != pricing.Round2(total) {
		t.Errorf("totals = %v / %v, rows sum to %v / %v", inv.TotalWithoutGST, inv.TotalWithGST, tariff, total)
	}
	if inv.SGST != 0 || inv.CGST != 0 {
		t.Errorf("split = %v / %v, want zero", inv.SGST, inv.CGST)
	}
}

// staleInvoiceNumbers hands out an already used number, as a concurrent
// create that counted first would.
type staleInvoiceNumbers struct {
	*fakeInvoiceRepo
	stale int
}

func (r *staleInvoiceNumbers) GetNextInvoiceNumber(ctx context.Context) (int64, error) {
	if r.stale > 0 {
		r.stale--
		return 1, nil
	}
	return r.fakeInvoiceRepo.GetNextInvoiceNumber(ctx)
}

func TestCreateInvoiceRetriesTakenNumber(t *testing.T) {
	f := newInvoiceFixture(t, nil)
	repo := &staleInvoiceNumbers{fakeInvoiceRepo: f.invoices}
	svc := NewInvoiceService(repo, f.svc.reservationRepo, f.svc.clientRepo, f.svc.supplier, nil)
	ctx := context.Background()

	first, err := svc.CreateInvoice(ctx, &InvoiceInput{ClientID: &f.localClient.ID, Items: sampleItems()})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	repo.stale = 1
	second, err := svc.CreateInvoice(ctx, &InvoiceInput{ClientID: &f.localClient.ID, Items: sampleItems()})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.InvoiceNo != "INV-000001" || second.InvoiceNo != "INV-000002" {
		t.Errorf("numbers = %s, %s", first.InvoiceNo, second.InvoiceNo)
	}

	repo.stale = numberAttempts
	_, err = svc.CreateInvoice(ctx, &InvoiceInput{ClientID: &f.localClient.ID, Items: sampleItems()})
	if !errors.Is(err, repository.ErrDuplicateNumber) {
		t.Errorf("err = %v, want ErrDuplicateNumber after %d attempts", err, numberAttempts)
	}
}
