package snowflake

import (
	"fmt"
	"time"

	"github.com/sony/sonyflake"
)

// Generator wraps a sonyflake instance for issuing receipt numbers.
type Generator struct {
	node *sonyflake.Sonyflake
}

// NewGenerator creates a Generator pinned to the given machine id so two
// instances never hand out the same id.
func NewGenerator(machineId uint16) (*Generator, error) {
	t, _ := time.Parse("2006-01-02", "2020-01-01")
	settings := sonyflake.Settings{
		StartTime: t,
		MachineID: func() (uint16, error) {
			return machineId, nil
		},
	}
	sf := sonyflake.NewSonyflake(settings)
	if sf == nil {
		return nil, fmt.Errorf("sonyflake not created")
	}
	return &Generator{node: sf}, nil
}

// GetID generates a new unique id.
func (g *Generator) GetID() (uint64, error) {
	return g.node.NextID()
}
