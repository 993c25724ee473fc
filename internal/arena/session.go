package arena

import (
	"fmt"
	"unicode/utf8"
)

// DefaultMaxPlayers applies when a session is created without a capacity.
const DefaultMaxPlayers = 20

// Session is one game table: its members and the round currently played.
// Session is not safe for concurrent use; callers serialize access.
type Session struct {
	ID         string
	HostID     string
	MaxPlayers int

	members []string
	round   *Round
}

func NewSession(id, hostID string, maxPlayers int) *Session {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &Session{
		ID:         id,
		HostID:     hostID,
		MaxPlayers: maxPlayers,
		round:      newRound(0, ""),
	}
}

// Round returns the current round. Round 0 means no round was started.
func (s *Session) Round() *Round {
	return s.round
}

func (s *Session) IsMember(player string) bool {
	for _, m := range s.members {
		if m == player {
			return true
		}
	}
	return false
}

func (s *Session) Members() []string {
	return append([]string(nil), s.members...)
}

// Join admits player. Joining twice is a no-op.
func (s *Session) Join(player string) error {
	if player == "" {
		return fmt.Errorf("%w: player id is required", ErrValidation)
	}
	if s.IsMember(player) {
		return nil
	}
	if len(s.members) >= s.MaxPlayers {
		return fmt.Errorf("%w: session %s holds %d players", ErrCapacityExceeded, s.ID, s.MaxPlayers)
	}
	s.members = append(s.members, player)
	return nil
}

// StartRound discards the current round and opens the next one.
func (s *Session) StartRound(prompt string) *Round {
	s.round = newRound(s.round.Number+1, prompt)
	return s.round
}

// NextRoundNumber is the number StartRound will assign.
func (s *Session) NextRoundNumber() int {
	return s.round.Number + 1
}

func (s *Session) Submit(player, text string) error {
	if utf8.RuneCountInString(text) > MaxAnswerLength {
		return fmt.Errorf("%w: answer exceeds %d characters", ErrValidation, MaxAnswerLength)
	}
	if !s.IsMember(player) {
		return fmt.Errorf("%w: %s", ErrNotAMember, player)
	}
	return s.round.submit(player, text)
}

// Vote adds one upvote for target. Self-votes and repeated votes count.
func (s *Session) Vote(voter, target string) error {
	if !s.IsMember(voter) {
		return fmt.Errorf("%w: %s", ErrNotAMember, voter)
	}
	if !s.IsMember(target) {
		return fmt.Errorf("%w: %s", ErrNotAMember, target)
	}
	if err := s.round.vote(target); err != nil {
		return fmt.Errorf("%w: %s", err, target)
	}
	return nil
}

// FileAppeal posts a bonded challenge against target's accepted score. The
// bond is not checked against the challenger's XP.
func (s *Session) FileAppeal(id, challenger, target string, bond int64) (Appeal, error) {
	if !s.IsMember(challenger) {
		return Appeal{}, fmt.Errorf("%w: %s", ErrNotAMember, challenger)
	}
	return s.round.fileAppeal(id, challenger, target, bond)
}
