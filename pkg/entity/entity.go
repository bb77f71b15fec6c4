// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-moonmission/pkg/physics"
)

// ID identifies one of the simulated bodies
type ID string

const (
	EarthID  ID = "earth"
	MoonID   ID = "moon"
	RocketID ID = "rocket"
)

// IDs lists every simulated body in integration order
var IDs = []ID{EarthID, MoonID, RocketID}

// Entity is the read-only view shared by planets and rockets
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector2D
	GetCollider() physics.Circle
}
