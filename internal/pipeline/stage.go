// Package pipeline runs the background enrichment for cases and assignments:
// structured extraction, web research and guide synthesis.
package pipeline

import (
	"github.com/beacon/backend/internal/ai"
	"github.com/beacon/backend/internal/models"
)

type StageKind string

const (
	StageExtract    StageKind = "extract"
	StageResearch   StageKind = "research"
	StageSynthesize StageKind = "synthesize"
)

type Kind string

const (
	KindCase       Kind = "case"
	KindAssignment Kind = "assignment"
)

var stagesByKind = map[Kind][]StageKind{
	KindCase:       {StageExtract, StageResearch, StageSynthesize},
	KindAssignment: {StageResearch, StageSynthesize},
}

// Stages returns the ordered stage list of a pipeline kind.
func (k Kind) Stages() []StageKind {
	return stagesByKind[k]
}

// Task names one pipeline run. ID is a case id for KindCase and an
// assignment id for KindAssignment.
type Task struct {
	Kind Kind
	ID   string
}

// RunState is what the stages of one run share. Each stage reads it and the
// run loop merges the stage output back in.
type RunState struct {
	Task       Task
	Case       models.Case
	Assignment *models.Assignment

	Extract  *ExtractOutput
	Research *ResearchOutput
}

type ExtractOutput struct {
	Fields models.StructuredFields
	// Applied is false when the provider output was unusable and the
	// defaults were kept.
	Applied bool
}

type ResearchOutput struct {
	Query       string
	Results     []ai.SearchResult
	Summary     string
	NearbyCases []string
	// Place is the reverse geocoded label of the case location, if known.
	Place string
}

type SynthesizeOutput struct {
	Text string
}

const (
	outcomeOK       = "ok"
	outcomeFallback = "fallback"
	outcomeSkipped  = "skipped"
	outcomeError    = "error"
)
