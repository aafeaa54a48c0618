package validators

const (
	datePattern     = `^[0-9]{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`
	clockPattern    = `^([01][0-9]|2[0-3]):[0-5][0-9]$`
	boundaryPattern = `^(([01][0-9]|2[0-3]):[0-5][0-9]|24:00)$`
)
