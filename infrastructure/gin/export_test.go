package gin

// FormatUptime exposes formatUptime for external tests.
var FormatUptime = formatUptime
