package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScenarioForStatus(t *testing.T) {
	assert.Equal(t, ScenarioActive, ScenarioForStatus("Active/Compliance"))
	assert.Equal(t, ScenarioActivePending, ScenarioForStatus("Active/Pending Annual Registration"))
	assert.Equal(t, ScenarioActiveNoncompliant, ScenarioForStatus("Active/Noncompliance"))
	assert.Equal(t, ScenarioDissolved, ScenarioForStatus("Admin. Dissolved"))
	assert.Equal(t, ScenarioWithdrawnOrRevoked, ScenarioForStatus("Withdrawn"))
	assert.Equal(t, ScenarioWithdrawnOrRevoked, ScenarioForStatus("Revoked"))
	assert.Equal(t, ScenarioWithdrawnOrRevoked, ScenarioForStatus("Terminated"))
	assert.Equal(t, ScenarioUnknown, ScenarioForStatus(""))
	assert.Equal(t, ScenarioUnknown, ScenarioForStatus("Merged"))
}

func TestEntityTypeSkipsRegistry(t *testing.T) {
	assert.True(t, EntityGovFederal.SkipsRegistry())
	assert.True(t, EntityGovStateLocal.SkipsRegistry())
	assert.True(t, EntityEstateTrust.SkipsRegistry())
	assert.False(t, EntityBusiness.SkipsRegistry())
	assert.False(t, EntityNonprofit.SkipsRegistry())
	assert.False(t, EntityAmbiguous.SkipsRegistry())
}

func TestLocationQualityDowngrade(t *testing.T) {
	assert.Equal(t, LocationMedium, LocationHigh.Downgrade())
	assert.Equal(t, LocationLow, LocationMedium.Downgrade())
	assert.Equal(t, LocationLow, LocationLow.Downgrade())
}

func TestRegistryRecordDedupeKey(t *testing.T) {
	assert.Equal(t, "K1", RegistryRecord{ControlNumber: "K1", BusinessName: "Acme"}.DedupeKey())
	assert.Equal(t, "Acme", RegistryRecord{BusinessName: "Acme"}.DedupeKey())
}
