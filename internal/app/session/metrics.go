package session

import "expvar"

var (
	metricSessionsCreated = expvar.NewInt("arena_sessions_created_total")
	metricRoundsStarted   = expvar.NewInt("arena_rounds_started_total")
	metricRoundsFinalized = expvar.NewInt("arena_rounds_finalized_total")

	metricProposalsTotal     = expvar.NewInt("arena_proposals_total")
	metricVerificationsTotal = expvar.NewInt("arena_verifications_total")
	metricCardsReplaced      = expvar.NewInt("arena_cards_replaced_total")

	metricAppealsFiled    = expvar.NewInt("arena_appeals_filed_total")
	metricAppealsUpheld   = expvar.NewInt("arena_appeals_upheld_total")
	metricAppealsRejected = expvar.NewInt("arena_appeals_rejected_total")

	metricOutboundErrors = expvar.NewInt("arena_outbound_call_errors_total")
	metricRoundChanged   = expvar.NewInt("arena_round_changed_total")
	metricLedgerErrors   = expvar.NewInt("arena_ledger_errors_total")
	metricXPAwarded      = expvar.NewInt("arena_xp_awarded_total")
)
