package routes

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"new-rent-server/models"
	"new-rent-server/storage"

	"github.com/kataras/iris/v12"
)

func seedProduct(t *testing.T, hostID uint, pricePerDay float32) models.Product {
	t.Helper()
	available := true
	product := models.Product{
		HostID:      hostID,
		Title:       "Pressure washer",
		Description: "3000 PSI, gas powered",
		PricePerDay: pricePerDay,
		Location:    "Denver, CO",
		IsAvailable: &available,
	}
	if err := storage.DB.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateRentalComputesInclusivePrice(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	host := createTestUser(t, "host@example.com", "user", models.KYCStatusApproved)
	renter := createTestUser(t, "renter@example.com", "user", models.KYCStatusPending)
	product := seedProduct(t, host.ID, 10)
	token := signTestToken(renter.ID, "user")

	// Five calendar days, endpoints included.
	resp := doJSON(t, app, http.MethodPost, "/api/rentals", token, iris.Map{
		"productID": product.ID,
		"startDate": futureDate(3),
		"endDate":   futureDate(7),
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	if total := body["totalPrice"].(float64); total != 50 {
		t.Fatalf("totalPrice = %v, want 50 (5 days x 10)", total)
	}
	if body["status"] != models.RentalStatusPending {
		t.Fatalf("status = %v, new rentals start pending", body["status"])
	}

	// A single day rents for one day's price.
	resp = doJSON(t, app, http.MethodPost, "/api/rentals", token, iris.Map{
		"productID": product.ID,
		"startDate": futureDate(20),
		"endDate":   futureDate(20),
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("single day: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if total := decodeBody(t, resp)["totalPrice"].(float64); total != 10 {
		t.Fatalf("single day totalPrice = %v, want 10", total)
	}
}

func TestCreateRentalRefusesOverlap(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	host := createTestUser(t, "host2@example.com", "user", models.KYCStatusApproved)
	renter := createTestUser(t, "renter2@example.com", "user", models.KYCStatusPending)
	other := createTestUser(t, "renter3@example.com", "user", models.KYCStatusPending)
	product := seedProduct(t, host.ID, 10)

	committed := models.Rental{
		ProductID: product.ID,
		RenterID:  other.ID,
		HostID:    host.ID,
		StartDate: time.Now().AddDate(0, 0, 5),
		EndDate:   time.Now().AddDate(0, 0, 10),
		Status:    models.RentalStatusApproved,
	}
	if err := storage.DB.Create(&committed).Error; err != nil {
		t.Fatalf("seed rental: %v", err)
	}

	token := signTestToken(renter.ID, "user")

	// Range intersecting the approved booking is refused.
	resp := doJSON(t, app, http.MethodPost, "/api/rentals", token, iris.Map{
		"productID": product.ID,
		"startDate": futureDate(8),
		"endDate":   futureDate(12),
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping dates, got %d: %s", resp.Code, resp.Body.String())
	}

	// Disjoint range is fine.
	resp = doJSON(t, app, http.MethodPost, "/api/rentals", token, iris.Map{
		"productID": product.ID,
		"startDate": futureDate(12),
		"endDate":   futureDate(14),
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for free dates, got %d: %s", resp.Code, resp.Body.String())
	}

	// Pending requests do not block other requests for the same span.
	resp = doJSON(t, app, http.MethodPost, "/api/rentals", signTestToken(other.ID, "user"), iris.Map{
		"productID": product.ID,
		"startDate": futureDate(12),
		"endDate":   futureDate(14),
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 alongside a pending request, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateRentalRejectsOwnProductAndBadDates(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	host := createTestUser(t, "host3@example.com", "user", models.KYCStatusApproved)
	product := seedProduct(t, host.ID, 10)
	token := signTestToken(host.ID, "user")

	resp := doJSON(t, app, http.MethodPost, "/api/rentals", token, iris.Map{
		"productID": product.ID,
		"startDate": futureDate(1),
		"endDate":   futureDate(2),
	})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 renting own product, got %d: %s", resp.Code, resp.Body.String())
	}

	renter := createTestUser(t, "renter4@example.com", "user", models.KYCStatusPending)
	token = signTestToken(renter.ID, "user")

	resp = doJSON(t, app, http.MethodPost, "/api/rentals", token, iris.Map{
		"productID": product.ID,
		"startDate": futureDate(5),
		"endDate":   futureDate(2),
	})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for end before start, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, app, http.MethodPost, "/api/rentals", token, iris.Map{
		"productID": product.ID,
		"startDate": "2020-01-01",
		"endDate":   "2020-01-05",
	})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for past dates, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRentalStatusTransitions(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	host := createTestUser(t, "host4@example.com", "user", models.KYCStatusApproved)
	renter := createTestUser(t, "renter5@example.com", "user", models.KYCStatusPending)
	product := seedProduct(t, host.ID, 10)

	rental := models.Rental{
		ProductID: product.ID,
		RenterID:  renter.ID,
		HostID:    host.ID,
		StartDate: time.Now().AddDate(0, 0, 1),
		EndDate:   time.Now().AddDate(0, 0, 3),
		Status:    models.RentalStatusPending,
	}
	if err := storage.DB.Create(&rental).Error; err != nil {
		t.Fatalf("seed rental: %v", err)
	}

	path := "/api/rentals/" + strconv.Itoa(int(rental.ID)) + "/status"
	hostToken := signTestToken(host.ID, "user")
	renterToken := signTestToken(renter.ID, "user")

	// Only the host approves.
	resp := doJSON(t, app, http.MethodPatch, path, renterToken, iris.Map{"status": "approved"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("renter approve: expected 422, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(t, app, http.MethodPatch, path, hostToken, iris.Map{"status": "approved"})
	if resp.Code != http.StatusOK {
		t.Fatalf("host approve: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// No skipping: approved cannot jump to completed.
	resp = doJSON(t, app, http.MethodPatch, path, hostToken, iris.Map{"status": "completed"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("skip to completed: expected 422, got %d: %s", resp.Code, resp.Body.String())
	}

	// The renter may cancel while still approved.
	resp = doJSON(t, app, http.MethodPatch, path, renterToken, iris.Map{"status": "cancelled"})
	if resp.Code != http.StatusOK {
		t.Fatalf("renter cancel: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// A third party cannot touch the rental at all.
	stranger := createTestUser(t, "stranger@example.com", "user", models.KYCStatusPending)
	resp = doJSON(t, app, http.MethodPatch, path, signTestToken(stranger.ID, "user"), iris.Map{"status": "cancelled"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("stranger: expected 403, got %d: %s", resp.Code, resp.Body.String())
	}
}
