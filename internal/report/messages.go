package report

import "fmt"

// Placeholder is the in-progress reply that is later edited into the result.
func Placeholder(input string) Report {
	var r Report
	r.Add(Plain("🔍 "), Bold("Searching for information..."))
	r.Add(Bold("Number:"), Plain(" "), Code(input))
	r.Add(Plain("⏳ Please wait..."))
	return r
}

// Guidance is the reply to a message that does not look like a phone number.
func Guidance() Report {
	var r Report
	r.Add(Plain("❌ "), Bold("Please send a valid phone number containing digits."))
	r.Blank()
	r.Add(Bold("Examples:"))
	for _, ex := range []string{"+1234567890", "1234567890", "+1 (234) 567-890"} {
		r.Add(Plain("• "), Code(ex))
	}
	r.Blank()
	r.Add(Plain("Type /help for more information."))
	return r
}

// Apology is the reply when handling failed after the placeholder was sent.
// reason must be safe to show to the user.
func Apology(input, reason string) Report {
	if reason == "" {
		reason = "unknown error"
	}

	var r Report
	r.Add(Plain("❌ "), Bold("Sorry, I encountered an error while processing"), Plain(" "), Code(input))
	r.Blank()
	r.Add(Bold("Error:"), Plain(" "+reason))
	r.Blank()
	r.Add(Bold("Please try:"))
	r.Add(Plain("• Using a different number format"))
	r.Add(Plain("• Checking if the number is valid"))
	r.Add(Plain("• Trying again later"))
	r.Blank()
	r.Add(Plain("Type /help for assistance."))
	return r
}

// Welcome is the /start reply.
func Welcome() Report {
	var r Report
	r.Add(Plain("👋 Welcome to Phone Number Info Bot!"))
	r.Blank()
	r.Add(Plain("📱 Simply send me a phone number and I'll fetch its details for you."))
	r.Blank()
	r.Add(Plain("Examples:"))
	for _, ex := range []string{"+1234567890", "1234567890", "+1 (234) 567-890", "234567890"} {
		r.Add(Plain("- " + ex))
	}
	r.Blank()
	r.Add(Plain("🔍 I'll provide information like:"))
	for _, item := range []string{"Carrier/Operator", "Number type", "Location", "And other available details"} {
		r.Add(Plain("• " + item))
	}
	r.Blank()
	r.Add(Plain("Type /help for more information."))
	return r
}

// Help is the /help reply.
func Help(providerName string) Report {
	var r Report
	r.Add(Plain("📖 How to use this bot:"))
	r.Blank()
	r.Add(Plain("1. Send any phone number in international format or local format"))
	r.Add(Plain("2. The bot will query the API for details"))
	r.Add(Plain("3. You'll receive information about the number"))
	r.Blank()
	r.Add(Plain("📋 Supported formats:"))
	r.Add(Plain("• International: +1234567890"))
	r.Add(Plain("• Local: 1234567890"))
	r.Add(Plain("• With formatting: +1 (234) 567-890"))
	r.Blank()
	r.Add(Plain("⚡ Commands:"))
	r.Add(Plain("/start - Start the bot"))
	r.Add(Plain("/help - Show this help message"))
	r.Blank()
	r.Add(Plain("🔧 Examples to try:"))
	for _, ex := range []string{"+14155552671", "+919876543210", "+442072193000"} {
		r.Add(Plain(ex))
	}
	r.Blank()
	r.Add(Plain(fmt.Sprintf("⚠️ Note: The accuracy of information depends on the %s database.", providerName)))
	return r
}
