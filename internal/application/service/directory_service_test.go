package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/stayledger-api/internal/domain/entity"
)

var mumbai = entity.Pincode{Code: "400001", City: "Mumbai", District: "Mumbai", State: "Maharashtra", StateCode: "27"}

func strPtr(s string) *string { return &s }

func TestHostServiceAutofillsFromPincode(t *testing.T) {
	svc := NewHostService(newFakeHostRepo(), newFakePincodeRepo(mumbai), nil)

	host, err := svc.CreateHost(context.Background(), &HostInput{
		Name:    "  Meera Shah ",
		Pincode: strPtr("400001"),
		PAN:     strPtr("abcde1234f"),
	})
	if err != nil {
		t.Fatalf("CreateHost: %v", err)
	}
	if host.Name != "Meera Shah" {
		t.Errorf("Name = %q", host.Name)
	}
	if deref(host.City) != "Mumbai" || deref(host.State) != "Maharashtra" {
		t.Errorf("city/state = %q/%q", deref(host.City), deref(host.State))
	}
	if deref(host.PAN) != "ABCDE1234F" {
		t.Errorf("PAN = %q", deref(host.PAN))
	}
}

func TestHostServiceDeleteWithProperties(t *testing.T) {
	repo := newFakeHostRepo()
	svc := NewHostService(repo, newFakePincodeRepo(), nil)
	ctx := context.Background()

	host, err := svc.CreateHost(ctx, &HostInput{Name: "Meera"})
	if err != nil {
		t.Fatalf("CreateHost: %v", err)
	}
	repo.properties[host.ID] = 2

	if code := appCode(t, svc.DeleteHost(ctx, host.ID)); code != http.StatusConflict {
		t.Errorf("code = %d, want 409", code)
	}
	repo.properties[host.ID] = 0
	if err := svc.DeleteHost(ctx, host.ID); err != nil {
		t.Errorf("DeleteHost: %v", err)
	}
}

func TestSearchUsesCacheUntilInvalidated(t *testing.T) {
	repo := newFakeHostRepo()
	cache := newMemoryCache()
	svc := NewHostService(repo, newFakePincodeRepo(), cache)
	ctx := context.Background()

	if _, err := svc.CreateHost(ctx, &HostInput{Name: "Meera Shah"}); err != nil {
		t.Fatalf("CreateHost: %v", err)
	}

	for i := 0; i < 2; i++ {
		items, err := svc.SearchHosts(ctx, "meera")
		if err != nil {
			t.Fatalf("SearchHosts: %v", err)
		}
		if len(items) != 1 || items[0].Label != "Meera Shah" {
			t.Fatalf("items = %+v", items)
		}
	}
	if repo.searches != 1 {
		t.Errorf("searches = %d, want 1 (second served from cache)", repo.searches)
	}

	if _, err := svc.CreateHost(ctx, &HostInput{Name: "Meera Iyer"}); err != nil {
		t.Fatalf("CreateHost: %v", err)
	}
	items, _ := svc.SearchHosts(ctx, "meera")
	if len(items) != 2 || repo.searches != 2 {
		t.Errorf("after invalidation: %d items, %d searches", len(items), repo.searches)
	}

	blank, err := svc.SearchHosts(ctx, "   ")
	if err != nil || len(blank) != 0 || repo.searches != 2 {
		t.Errorf("blank query should not hit the repository")
	}
}

func TestPropertyService(t *testing.T) {
	hosts := newFakeHostRepo()
	properties := newFakePropertyRepo()
	svc := NewPropertyService(properties, hosts, newFakePincodeRepo(mumbai), nil)
	ctx := context.Background()

	host := &entity.Host{Name: "Meera"}
	_ = hosts.Create(ctx, host)

	p, err := svc.CreateProperty(ctx, &PropertyInput{
		HostID:    host.ID,
		Name:      "Marine Drive Flat",
		Code:      " mdf-1 ",
		Pincode:   strPtr("400001"),
		RoomTypes: []string{" Deluxe ", "deluxe", "", "Suite"},
	})
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}
	if p.Code != "MDF-1" || p.StateCode != "27" {
		t.Errorf("code/state = %q/%q", p.Code, p.StateCode)
	}
	if got := p.RoomTypeList(); len(got) != 2 || got[0] != "Deluxe" || got[1] != "Suite" {
		t.Errorf("room types = %v", got)
	}
	if p.DefaultCheckIn != "14:00" || p.DefaultCheckOut != "11:00" {
		t.Errorf("defaults = %s/%s", p.DefaultCheckIn, p.DefaultCheckOut)
	}

	_, err = svc.CreateProperty(ctx, &PropertyInput{HostID: host.ID, Name: "Dup", Code: "MDF-1", RoomTypes: []string{"Suite"}})
	if code := appCode(t, err); code != http.StatusConflict {
		t.Errorf("duplicate code: %d, want 409", code)
	}

	_, err = svc.CreateProperty(ctx, &PropertyInput{HostID: host.ID, Name: "Late", Code: "LT", RoomTypes: []string{"Suite"}, DefaultCheckIn: "noon"})
	if code := appCode(t, err); code != http.StatusUnprocessableEntity {
		t.Errorf("bad default time: %d, want 422", code)
	}

	if _, err := svc.UpdateProperty(ctx, p.ID, &PropertyInput{HostID: host.ID, Name: "Marine Drive Flat", Code: "MDF-1", RoomTypes: []string{"Suite"}}); err != nil {
		t.Errorf("update keeping own code: %v", err)
	}
}

func TestClientServiceStateCode(t *testing.T) {
	svc := NewClientService(newFakeClientRepo(), newFakePincodeRepo(mumbai), nil)
	ctx := context.Background()

	fromGSTIN, err := svc.CreateClient(ctx, &ClientInput{Name: "Acme", GSTIN: strPtr("29abcde1234f1z5")})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if fromGSTIN.BillingStateCode != "29" || deref(fromGSTIN.GSTIN) != "29ABCDE1234F1Z5" {
		t.Errorf("state = %q gstin = %q", fromGSTIN.BillingStateCode, deref(fromGSTIN.GSTIN))
	}

	fromPin, err := svc.CreateClient(ctx, &ClientInput{Name: "Beta", BillingPincode: strPtr("400001")})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if fromPin.BillingStateCode != "27" || deref(fromPin.BillingCity) != "Mumbai" {
		t.Errorf("state = %q city = %q", fromPin.BillingStateCode, deref(fromPin.BillingCity))
	}
}

func TestPincodeService(t *testing.T) {
	svc := NewPincodeService(newFakePincodeRepo(mumbai), nil)
	ctx := context.Background()

	pin, err := svc.GetPincode(ctx, "400001")
	if err != nil || pin.City != "Mumbai" {
		t.Fatalf("GetPincode = %+v, %v", pin, err)
	}
	if code := appCode(t, func() error { _, err := svc.GetPincode(ctx, "4000"); return err }()); code != http.StatusBadRequest {
		t.Errorf("short code: %d", code)
	}
	if code := appCode(t, func() error { _, err := svc.GetPincode(ctx, "110001"); return err }()); code != http.StatusNotFound {
		t.Errorf("unknown code: %d", code)
	}

	items, err := svc.SearchPincodes(ctx, "4000")
	if err != nil || len(items) != 1 || items[0].ID != "400001" {
		t.Errorf("SearchPincodes = %+v, %v", items, err)
	}
}
