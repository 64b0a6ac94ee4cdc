package userstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

func TestDetectNewGoal_ExplicitHighConfidence(t *testing.T) {
	goal := detectNewGoal("u1", "My goal is to run a marathon by the end of the year")
	if assert.NotNil(t, goal) {
		assert.Equal(t, chatmodel.GoalHealth, goal.Category)
		assert.NotEmpty(t, goal.Milestones)
	}
}

func TestDetectNewGoal_ImplicitLowerConfidence(t *testing.T) {
	goal := detectNewGoal("u1", "I want to save more money this year")
	if assert.NotNil(t, goal) {
		assert.Equal(t, chatmodel.GoalFinancial, goal.Category)
	}
}

func TestDetectNewGoal_NoMatch(t *testing.T) {
	assert.Nil(t, detectNewGoal("u1", "What's the weather like today?"))
}

func TestClassifyProgressType(t *testing.T) {
	assert.Equal(t, chatmodel.ProgressCompletion, classifyProgressType("I finally finished the marathon!"))
	assert.Equal(t, chatmodel.ProgressSetback, classifyProgressType("I fell behind on my training"))
	assert.Equal(t, chatmodel.ProgressMilestone, classifyProgressType("I'm halfway to my goal"))
	assert.Equal(t, chatmodel.ProgressMention, classifyProgressType("still working on it"))
}

func TestMatchProgress_BelowOverlapThresholdSkips(t *testing.T) {
	goal := &chatmodel.Goal{Title: "run a marathon", Description: "training for a marathon race"}
	_, matched := matchProgress(goal, "I had pizza for lunch")
	assert.False(t, matched)
}

func TestMatchProgress_AboveThresholdMatches(t *testing.T) {
	goal := &chatmodel.Goal{Title: "run a marathon", Description: "training for a marathon race"}
	progress, matched := matchProgress(goal, "marathon training went well today")
	assert.True(t, matched)
	assert.NotNil(t, progress)
}
