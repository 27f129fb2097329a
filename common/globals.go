package common

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusPending   = "pending"

	TransactionTypeDeposit  = "deposit"
	TransactionTypeWithdraw = "withdraw"
	TransactionTypePostFee  = "post_fee"
	TransactionTypeRefund   = "refund"

	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"

	PostTypeProperty = "property"
	PostTypeLand     = "land"
	PostTypeSim      = "sim"
	PostTypeNews     = "news"

	PostStatusPending  = "pending"
	PostStatusApproved = "approved"
	PostStatusRejected = "rejected"
	PostStatusExpired  = "expired"

	PropertyStatusForSale = "for_sale"
	PropertyStatusForRent = "for_rent"
	PropertyStatusSold    = "sold"
	PropertyStatusRented  = "rented"

	SimStatusAvailable = "available"
	SimStatusSold      = "sold"
	SimStatusReserved  = "reserved"

	TicketStatusOpen     = "open"
	TicketPriorityMedium = "medium"

	DefaultLegalStatus   = "Sổ đỏ"
	DepositMethodBank    = "Bank Transfer"
	TransferNotePrefix   = "NapTien"
	ExcerptLength        = 150
	DefaultPageLimit     = 20
	MaxPageLimit         = 100
	DefaultFeaturedLimit = 6
	MaxFeaturedLimit     = 20

	MaxImageSize      = 5 * 1024 * 1024
	MaxImagesTotal    = 25 * 1024 * 1024
	MaxImagesPerBatch = 10
)

// Event types published on the in-process pubsub and forwarded to the
// configured sinks.
const (
	EventPostSubmitted    = "post.submitted"
	EventPostApproved     = "post.approved"
	EventPostRejected     = "post.rejected"
	EventPostExpired      = "post.expired"
	EventDepositRequested = "deposit.requested"
	EventDepositCompleted = "deposit.completed"
	EventDepositFailed    = "deposit.failed"
	EventWalletAdjusted   = "wallet.adjusted"

	// every event is also published on this topic
	TopicAllEvents = "*"
)
