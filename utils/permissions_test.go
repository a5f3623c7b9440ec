package utils

import (
	"testing"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	assert.True(t, Can(models.RoleTenant, ActionReservationCreate))
	assert.True(t, Can(models.RoleTenant, ActionIncidentReport))
	assert.False(t, Can(models.RoleTenant, ActionPropertyPublish))
	assert.False(t, Can(models.RoleTenant, ActionVerificationReview))

	assert.True(t, Can(models.RoleLandlord, ActionPropertyPublish))
	assert.True(t, Can(models.RoleLandlord, ActionReservationDecide))
	assert.False(t, Can(models.RoleLandlord, ActionReservationCreate))

	assert.True(t, Can(models.RoleAdmin, ActionVerificationReview))
	assert.True(t, Can(models.RoleAdmin, ActionIncidentManage))

	// unknown roles hold nothing
	assert.False(t, Can("guest", ActionReservationCreate))
	assert.False(t, Can("", ActionIncidentReport))
}
