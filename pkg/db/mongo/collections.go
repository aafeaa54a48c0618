package mongo

const (
	AvailabilityWindowsCollection = "Availability_windows"
	BookingsCollection            = "Bookings"
	UsersCollection               = "Users"
	BookingLocksCollection        = "Booking_locks"
)

const (
	ProviderDateUniqueIndex       = "provider_date_unique"
	ProviderSlotActiveUniqueIndex = "provider_slot_active_unique"
	BookingLockTTLIndex           = "expires_at_ttl"
)
