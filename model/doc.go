// Package model holds the data exchanged between the pairing engine and its
// collaborators: participants, pairing history, the emitted groups, and the
// error taxonomy shared by every stage.
//
// Shapes:
//
//	Participant   {ID, Eligible, Attributes}      one row of the pool, immutable per cycle
//	HistoryRecord {A, B, LastCycle}                most recent cycle a pair met
//	PairKey       {Lo, Hi}                         canonical unordered pair, Lo < Hi
//	Group         {Members, Weight}                a pair (2) or a triad (3)
//	PairingResult {Pairs, Unresolved, TotalWeight} the engine output
//
// Ordering:
//
//	PairKey.Less is the single total order used to break ties anywhere in the
//	engine. Groups are emitted with sorted members and sorted by first member,
//	so two runs over identical input serialize byte-for-byte identically.
//
// Errors:
//
//	ValidationError          malformed input (ids, history, config, weights)
//	InfeasibleMatchingError  no candidate edges and no policy able to absorb it
//	PartialCoverageError     the parity policy could not cover everyone
//
// Every typed error matches its sentinel (ErrValidation, ErrInfeasible,
// ErrPartialCoverage) through errors.Is.
package model
