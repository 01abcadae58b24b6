package memory_test

import (
	"testing"

	"github.com/aretw0/docu/pkg/adapters/memory"
	"github.com/aretw0/docu/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunCounterStoreContract(t, memory.NewStore())
}
