package game

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/lox/fivedraw/internal/evaluator"
)

func TestFoldIsNoContest(t *testing.T) {
	t.Parallel()

	s := startRound(t, humanFullHouse+cpuHighCard)
	s, events, err := s.SubmitAction(HumanSeat, Fold)
	if err != nil {
		t.Fatal(err)
	}

	if s.Phase != PhaseComplete || s.Turn != NoSeat {
		t.Fatalf("fold should complete the round, got %s seat %d", s.Phase, s.Turn)
	}
	if s.Result == nil || !s.Result.NoContest || s.Result.Outcome != OutcomeLoss {
		t.Fatalf("expected no-contest loss, got %+v", s.Result)
	}
	if s.Computer().Stack != 1040 || s.Human().Stack != 980 {
		t.Errorf("unexpected stacks %d %d", s.Human().Stack, s.Computer().Stack)
	}
	if n := countEvents[HandRankRevealedEvent](events); n != 0 {
		t.Errorf("no hands should be revealed, got %d", n)
	}
	if !slices.Equal(s.Result.Winners, []int{ComputerSeat}) {
		t.Errorf("winners = %v", s.Result.Winners)
	}

	// unshown hands have no category
	if s.Result.Categories != nil {
		t.Errorf("categories = %v, want none", s.Result.Categories)
	}
	data, err := json.Marshal(s.Result)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "categories") || strings.Contains(string(data), "Unknown") {
		t.Errorf("no-contest result should omit categories: %s", data)
	}
}

func TestComputerFoldAwardsHuman(t *testing.T) {
	t.Parallel()
	must := mustT(t)

	s := startRound(t, humanFullHouse+cpuHighCard)
	s = must(s.SubmitAction(HumanSeat, Raise))
	s = must(s.SubmitAction(ComputerSeat, Fold))

	if s.Result.Outcome != OutcomeWin || !s.Result.NoContest || s.Result.Pot != 140 {
		t.Fatalf("unexpected result %+v", s.Result)
	}
	if s.Human().Stack != 1020 {
		t.Errorf("human stack = %d, want 1020", s.Human().Stack)
	}
}

func TestTieSplitsPot(t *testing.T) {
	t.Parallel()
	must := mustT(t)

	// both finish with one pair; the computer keeps its king kicker and
	// draws 7c 4d
	s := startRound(t, "2s2h5d8cJs"+"3s3hKd9c6h"+"7c4d", WithAnte(100), WithSymmetricAnte(true))
	if s.Pot.Amount() != 200 {
		t.Fatalf("pot = %d, want 200", s.Pot.Amount())
	}

	s = must(s.SubmitAction(HumanSeat, Check))
	s = must(s.ComputerAct(alwaysCall))
	s = must(s.SubmitDiscards(HumanSeat, nil))
	s = must(s.ComputerAct(alwaysCall))
	s = must(s.SubmitAction(HumanSeat, Check))
	s, events, err := s.ComputerAct(alwaysCall)
	if err != nil {
		t.Fatal(err)
	}

	if s.Result.Outcome != OutcomePush {
		t.Fatalf("expected push, got %s", s.Result.Outcome)
	}
	if !slices.Equal(s.Result.Payouts, []int{100, 100}) {
		t.Errorf("payouts = %v", s.Result.Payouts)
	}
	if s.Human().Stack != 1000 || s.Computer().Stack != 1000 {
		t.Errorf("each stack should be back to 1000, got %d %d", s.Human().Stack, s.Computer().Stack)
	}
	if !slices.Equal(s.Result.Categories, []evaluator.Category{evaluator.OnePair, evaluator.OnePair}) {
		t.Errorf("categories = %v", s.Result.Categories)
	}
	if n := countEvents[HandRankRevealedEvent](events); n != 2 {
		t.Errorf("expected 2 reveals, got %d", n)
	}
}

func TestComputerWinsShowdown(t *testing.T) {
	t.Parallel()
	must := mustT(t)

	// computer holds quads, throws the 3c and draws the 4c
	s := startRound(t, "2s3h5d8cJs"+"9s9h9d9c3c"+"4c")
	s = must(s.SubmitAction(HumanSeat, Raise))
	s = must(s.ComputerAct(alwaysCall))
	s = must(s.SubmitDiscards(HumanSeat, nil))
	s = must(s.ComputerAct(alwaysCall))
	s = must(s.SubmitAction(HumanSeat, Check))
	s = must(s.ComputerAct(alwaysCall))

	if s.Result.Outcome != OutcomeLoss || s.Result.NoContest {
		t.Fatalf("expected showdown loss, got %+v", s.Result)
	}
	if s.Result.Categories[ComputerSeat] != evaluator.FourOfAKind {
		t.Errorf("computer category = %s", s.Result.Categories[ComputerSeat])
	}
	// human paid 20 ante + 100; computer paid 100 and collects 240
	if s.Human().Stack != 880 || s.Computer().Stack != 1140 {
		t.Errorf("unexpected stacks %d %d", s.Human().Stack, s.Computer().Stack)
	}
}

func TestPotSplitRemainder(t *testing.T) {
	t.Parallel()

	var p Pot
	p.Add(41)
	share, rem := p.split(2)
	if share != 20 || rem != 1 {
		t.Errorf("split(2) = %d, %d", share, rem)
	}
	share, rem = p.split(0)
	if share != 0 || rem != 41 {
		t.Errorf("split(0) = %d, %d", share, rem)
	}
	p.Clear()
	if p.Amount() != 0 {
		t.Errorf("cleared pot = %d", p.Amount())
	}
}

func TestOutcomeFor(t *testing.T) {
	t.Parallel()

	if outcomeFor(HumanSeat, []int{HumanSeat}) != OutcomeWin {
		t.Error("sole winner should win")
	}
	if outcomeFor(HumanSeat, []int{ComputerSeat}) != OutcomeLoss {
		t.Error("non-winner should lose")
	}
	if outcomeFor(HumanSeat, []int{HumanSeat, ComputerSeat}) != OutcomePush {
		t.Error("shared win should push")
	}
}
