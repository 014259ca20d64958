package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallGraphModuleFunctions(t *testing.T) {
	idx := parseIndex(t, `
def low():
    return 1

def mid():
    return low()

def high():
    return mid()
`)

	m := NewCallGraphAnalyzer().Analyze(idx)
	assert.Equal(t, 3, m.Nodes)
	assert.Equal(t, 2, m.Edges)
	assert.Equal(t, 2, m.MaxDepth)
	assert.Equal(t, 1, m.MaxFanIn)
	assert.Equal(t, 1, m.MaxFanOut)
}

func TestCallGraphSelfMethodCalls(t *testing.T) {
	idx := parseIndex(t, `
class Pipeline:
    def run(self):
        self.prepare()
        self.execute()

    def prepare(self):
        pass

    def execute(self):
        pass
`)

	m := NewCallGraphAnalyzer().Analyze(idx)
	assert.Equal(t, 2, m.Edges)
	assert.Equal(t, 2, m.MaxFanOut)
}

func TestCallGraphCycleTerminates(t *testing.T) {
	idx := parseIndex(t, `
def ping():
    return pong()

def pong():
    return ping()
`)

	m := NewCallGraphAnalyzer().Analyze(idx)
	// Each root can traverse the other node once before the cycle closes.
	assert.Equal(t, 1, m.MaxDepth)
	assert.Equal(t, 2, m.Edges)
}

func TestCallGraphSharedChainDepth(t *testing.T) {
	idx := parseIndex(t, `
def base():
    return 1

def step():
    return base()

def left():
    return step()

def right():
    return step()
`)

	m := NewCallGraphAnalyzer().Analyze(idx)
	// step's chain is computed once and reused for both callers.
	assert.Equal(t, 2, m.MaxDepth)
	assert.Equal(t, 2, m.MaxFanIn, "step is called from both left and right")
}

func TestCallGraphCrossFileEdges(t *testing.T) {
	idx := parseIndex(t, `
import helpers

def work():
    helpers.setup()
    helpers.run()
    return helpers.teardown()
`)

	m := NewCallGraphAnalyzer().Analyze(idx)
	assert.Equal(t, 3, m.CrossFileEdges)
	assert.Equal(t, 0, m.Edges, "calls into imported modules are not internal edges")
}

func TestCallGraphDensity(t *testing.T) {
	idx := parseIndex(t, `
def a():
    b()

def b():
    pass
`)

	m := NewCallGraphAnalyzer().Analyze(idx)
	// 1 edge out of 2 possible directed edges.
	assert.Equal(t, 0.5, m.Density)
}

func TestCallGraphSelfRecursionIgnored(t *testing.T) {
	idx := parseIndex(t, `
def loop(n):
    if n > 0:
        return loop(n - 1)
    return 0
`)

	m := NewCallGraphAnalyzer().Analyze(idx)
	assert.Equal(t, 0, m.Edges, "self edge should be dropped")
	assert.Equal(t, 0, m.MaxDepth)
}
