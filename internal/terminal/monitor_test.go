package terminal

import (
	"strings"
	"testing"

	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestMonitor(t *testing.T) {
	cfg := machine.DefaultConfig()
	cfg.Logger = log.NewTestLogger(t)
	m := machine.New(cfg)
	assert.NoError(t, m.Load([]byte{
		0x6A, 0x42, // ld VA, $42
		0xA3, 0x00, // ld I, $300
		0x22, 0x08, // call $208
		0x00, 0x00, // not an instruction
		0xF5, 0x15, // ld DT, V5
		0x00, 0xEE, // ret
	}))
	for range 3 {
		assert.NoError(t, m.Step())
	}
	assert.NoError(t, m.SetKey(0x5, true))

	lines := strings.Split(strings.TrimSuffix(Monitor(m), "\n"), "\n")
	assert.Len(t, lines, 1+4+2*MonitorWindow+1)

	assert.True(t, strings.HasPrefix(lines[0], "PC $208  I $300  SP 1 "))
	assert.Contains(t, lines[0], "running")
	assert.Contains(t, lines[3], "V8-VB  00 00 42 00")
	assert.Contains(t, lines[2], "[5]")
	assert.Contains(t, lines[2], " 4 ")

	current := lines[1+4+MonitorWindow]
	assert.True(t, strings.HasPrefix(current, "> $208  ld DT, V5"))
	assert.Contains(t, lines[1+4+MonitorWindow-1], "$206  .word $0000")
	assert.True(t, strings.HasPrefix(lines[1+4], "  -"))
	assert.Contains(t, lines[1+4+MonitorWindow-4], "$200  ld VA, $42")
}

func TestMonitor_EndOfMemory(t *testing.T) {
	cfg := machine.DefaultConfig()
	cfg.Logger = log.NewTestLogger(t)
	m := machine.New(cfg)
	assert.NoError(t, m.Load([]byte{
		0x1F, 0xFE, // jp $FFE
	}))
	assert.NoError(t, m.Step())

	lines := strings.Split(strings.TrimSuffix(Monitor(m), "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[1+4+MonitorWindow], "> $FFE"))
	assert.True(t, strings.HasPrefix(lines[1+4+MonitorWindow+1], "  -"))
}
