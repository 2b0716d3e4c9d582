package mongo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/core/ports"
)

func TestUpdateDocument_OnlyProvidedFields(t *testing.T) {
	brand := "Yamaha"
	status := domain.MotorcycleInMaintenance

	got := updateDocument(ports.MotorcycleUpdate{Brand: &brand, Status: &status})
	want := bson.M{"brand": "Yamaha", "status": "in-maintenance"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected $set document (-want +got):\n%s", diff)
	}
}

func TestUpdateDocument_Empty(t *testing.T) {
	if got := updateDocument(ports.MotorcycleUpdate{}); len(got) != 0 {
		t.Errorf("expected empty document, got %v", got)
	}
}
