package handler

type ContextKey string

var (
	LocationCtx    ContextKey = "location"
	ServiceCtx     ContextKey = "service"
	StaffMemberCtx ContextKey = "staffMember"
	BookingCtx     ContextKey = "booking"
)
