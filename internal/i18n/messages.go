package i18n

// Keys match the booking error codes and verdict reasons, so the chat layer
// can translate them without a lookup table of its own. Parameters are
// written as {NAME}.
var messages = map[string]map[string]string{
	"en": {
		"AGREE_ATTACHMENTS":         "By booking you agree to the following documents:",
		"BUTTON_BOOK_NOW":           "Book now",
		"BUTTON_CHANGE":             "Change",
		"BUTTON_MORE_DATES":         "More dates",
		"BUTTON_RESTART":            "Start over",
		"BOOKING_CONFIRMED":         "Your booking is confirmed. {MESSAGE}",
		"BOOKING_FAILED":            "The booking could not be completed. Please try again later.",
		"BOOKING_SIZE":              "Number of persons",
		"BOOKING_SIZE_ASK":          "How many persons? ({PRICE} per person)",
		"CONTACT_FIELD_ASK":         "Please enter: {FIELD}",
		"CONTACT_FIELD_INVALID":     "{FIELD}: {REASON}",
		"DATE":                      "Date",
		"DATE_CHOOSE":               "Choose a date:",
		"DATE_NONE_AVAILABLE":       "There are no available dates for this selection.",
		"DISCOUNT_APPLIED":          "Discount \"{NAME}\" applied.",
		"DISCOUNT_CODE":             "Discount code",
		"DISCOUNT_CHECK":            "Check",
		"LOADING":                   "Loading...",
		"NO_PACKAGES":               "There are no packages available for online booking.",
		"PACKAGE_CHOOSE":            "Which package would you like to book?",
		"PAYMENT_AFTERWARDS":        "Pay afterwards",
		"PAYMENT_CHOOSE":            "How would you like to pay?",
		"PAYMENT_DIRECT":            "Pay online",
		"PAYMENT_LINK":              "Almost done! Complete your booking here: {URL}",
		"PRICE_DISCOUNT":            "Discount ({NAME})",
		"PRICE_SUBTOTAL":            "Subtotal",
		"PRICE_TOTAL":               "Total",
		"PRICE_TOTAL_WITH_DISCOUNT": "Total including discount",
		"PRODUCT_MAXIMUM":           "At most {MAXIMUM} can be booked online.",
		"PRODUCT_MINIMUM":           "(must be at least {MINIMUM})",
		"PRODUCT_REQUIRED":          "{NUM} {PRODUCT} requires {REQUIRED_AMOUNT} {REQUIRED_PRODUCT} to also be booked.",
		"QUANTITY_ASK":              "How many of \"{PRODUCT}\"? ({PRICE} each)",
		"RATE_LIMITED":              "Too many attempts. Please wait a moment.",
		"SUMMARY":                   "Your booking",
		"TIME":                      "Time",
		"TIME_CHOOSE":               "Choose a time:",
		"TIME_PREVIEW":              "{PRODUCT}: {BEGIN} - {END}",
		"VOUCHER":                   "Voucher",
		"VOUCHER_APPLIED":           "Voucher applied.",
		"VOUCHER_APPLY":             "Apply",
		"VOUCHERS_DISCOUNT":         "Discount from vouchers",

		"ADMIN_EXPORT":           "Bookings export",
		"ADMIN_EXPORT_FAILED":    "Failed to export bookings.",
		"ADMIN_STATS":            "Bookings\nTotal: {TOTAL} ({TOTAL_AMOUNT})\nToday: {TODAY} ({TODAY_AMOUNT})\nLast 7 days: {WEEK} ({WEEK_AMOUNT})\nLast 30 days: {MONTH} ({MONTH_AMOUNT})\nFailed: {FAILED}",
		"ADMIN_STATS_FAILED":     "Failed to load statistics.",
		"BUTTON_DISCOUNT":        "Discount code",
		"BUTTON_SHARE_PHONE":     "Share my phone number",
		"BUTTON_SKIP":            "Skip",
		"BUTTON_VOUCHER":         "Voucher",
		"CANCELLED":              "Your booking has been cancelled. Send /start to begin again.",
		"DISCOUNT_ASK":           "Please enter your discount code:",
		"EMAIL_INVALID":          "Please enter a valid email address.",
		"FIELD_REQUIRED":         "This field is required.",
		"FIELD_CHOICE_INVALID":   "Please choose one of the options.",
		"HELP":                   "/start - make a booking\n/cancel - cancel the current booking\n/help - show this help",
		"NOTIFY_NEW_BOOKING":     "New booking #{ID}\n{PACKAGE}\n{BEGIN}\nTotal: {TOTAL}\nPayment: {PAYMENT}\nStatus: {STATUS}\nTG: @{USERNAME}",
		"PAYMENT_METHOD":         "Payment method",
		"PHONE_INVALID":          "Please enter a valid phone number.",
		"SESSION_RESTORE_FAILED": "Part of your booking could not be restored. Please check your choices.",
		"UNKNOWN_COMMAND":        "Unknown command. Use /start to begin.",
		"USE_BUTTONS":            "Please use the buttons.",
		"VOUCHER_ASK":            "Please enter your voucher code:",
		"WELCOME":                "Welcome! Let's make a booking.",

		"BUSY":                    "Your booking is being processed, please wait.",
		"DATE_INVALID":            "Please choose a valid date first.",
		"DATE_UNAVAILABLE":        "This date is not available.",
		"DISCOUNT_EMPTY":          "Please enter a discount code.",
		"DISCOUNT_INVALID":        "Invalid discount code.",
		"NO_PACKAGE":              "Please choose a package first.",
		"NO_PRODUCTS":             "No products selected.",
		"PAYMENT_METHOD_INVALID":  "This payment method is not available.",
		"QUANTITY_INVALID":        "Please enter a whole number of 0 or more.",
		"QUANTITY_TOO_HIGH":       "That is more than can be booked.",
		"SUBMIT_BLOCKED":          "The booking is not complete yet.",
		"TIME_INVALID":            "This time is not available.",
		"TRANSPORT_FAILED":        "Something went wrong. Please try again later.",
		"UNKNOWN_LINE":            "Unknown product.",
		"VOUCHER_ALREADY_APPLIED": "Voucher has already been applied.",
		"VOUCHER_EMPTY":           "Please enter a voucher code.",
		"VOUCHER_INVALID":         "Invalid voucher code.",

		"BOOKING_DISABLED_AMOUNTS_INVALID":      "Please enter valid amounts.",
		"BOOKING_DISABLED_CONTACT_FORM_INVALID": "Please fill in the contact form.",
		"BOOKING_DISABLED_INVALID_DATE":         "Please choose a date.",
		"BOOKING_DISABLED_INVALID_TIME":         "Please choose a time.",
		"BOOKING_DISABLED_REQUIRED_PRODUCT":     "Some products require other products.",
	},
	"nl": {
		"AGREE_ATTACHMENTS":         "Door te boeken ga je akkoord met de volgende documenten:",
		"BUTTON_BOOK_NOW":           "Nu boeken",
		"BUTTON_CHANGE":             "Wijzigen",
		"BUTTON_MORE_DATES":         "Meer data",
		"BUTTON_RESTART":            "Opnieuw beginnen",
		"BOOKING_CONFIRMED":         "Je boeking is bevestigd. {MESSAGE}",
		"BOOKING_FAILED":            "De boeking kon niet worden afgerond. Probeer het later opnieuw.",
		"BOOKING_SIZE":              "Aantal personen",
		"BOOKING_SIZE_ASK":          "Met hoeveel personen? ({PRICE} per persoon)",
		"CONTACT_FIELD_ASK":         "Vul in: {FIELD}",
		"CONTACT_FIELD_INVALID":     "{FIELD}: {REASON}",
		"DATE":                      "Datum",
		"DATE_CHOOSE":               "Kies een datum:",
		"DATE_NONE_AVAILABLE":       "Er zijn geen beschikbare data voor deze keuze.",
		"DISCOUNT_APPLIED":          "Korting \"{NAME}\" toegepast.",
		"DISCOUNT_CODE":             "Kortingscode",
		"DISCOUNT_CHECK":            "Controleren",
		"LOADING":                   "Laden...",
		"NO_PACKAGES":               "Er zijn geen arrangementen online te boeken.",
		"PACKAGE_CHOOSE":            "Welk arrangement wil je boeken?",
		"PAYMENT_AFTERWARDS":        "Achteraf betalen",
		"PAYMENT_CHOOSE":            "Hoe wil je betalen?",
		"PAYMENT_DIRECT":            "Direct online betalen",
		"PAYMENT_LINK":              "Bijna klaar! Rond je boeking hier af: {URL}",
		"PRICE_DISCOUNT":            "Korting ({NAME})",
		"PRICE_SUBTOTAL":            "Subtotaal",
		"PRICE_TOTAL":               "Totaal",
		"PRICE_TOTAL_WITH_DISCOUNT": "Totaal inclusief korting",
		"PRODUCT_MAXIMUM":           "Er kunnen maximaal {MAXIMUM} online geboekt worden.",
		"PRODUCT_MINIMUM":           "(moet minstens {MINIMUM} zijn)",
		"PRODUCT_REQUIRED":          "{NUM} {PRODUCT} vereist dat ook {REQUIRED_AMOUNT} {REQUIRED_PRODUCT} geboekt wordt.",
		"QUANTITY_ASK":              "Hoeveel \"{PRODUCT}\"? ({PRICE} per stuk)",
		"RATE_LIMITED":              "Te veel pogingen. Wacht even.",
		"SUMMARY":                   "Je boeking",
		"TIME":                      "Tijd",
		"TIME_CHOOSE":               "Kies een tijd:",
		"TIME_PREVIEW":              "{PRODUCT}: {BEGIN} - {END}",
		"VOUCHER":                   "Tegoedbon",
		"VOUCHER_APPLIED":           "Tegoedbon toegepast.",
		"VOUCHER_APPLY":             "Toepassen",
		"VOUCHERS_DISCOUNT":         "Korting uit tegoedbonnen",

		"ADMIN_EXPORT":           "Export van boekingen",
		"ADMIN_EXPORT_FAILED":    "Exporteren van boekingen mislukt.",
		"ADMIN_STATS":            "Boekingen\nTotaal: {TOTAL} ({TOTAL_AMOUNT})\nVandaag: {TODAY} ({TODAY_AMOUNT})\nAfgelopen 7 dagen: {WEEK} ({WEEK_AMOUNT})\nAfgelopen 30 dagen: {MONTH} ({MONTH_AMOUNT})\nMislukt: {FAILED}",
		"ADMIN_STATS_FAILED":     "Statistieken laden mislukt.",
		"BUTTON_DISCOUNT":        "Kortingscode",
		"BUTTON_SHARE_PHONE":     "Deel mijn telefoonnummer",
		"BUTTON_SKIP":            "Overslaan",
		"BUTTON_VOUCHER":         "Tegoedbon",
		"CANCELLED":              "Je boeking is geannuleerd. Stuur /start om opnieuw te beginnen.",
		"DISCOUNT_ASK":           "Vul je kortingscode in:",
		"EMAIL_INVALID":          "Vul een geldig e-mailadres in.",
		"FIELD_REQUIRED":         "Dit veld is verplicht.",
		"FIELD_CHOICE_INVALID":   "Kies een van de opties.",
		"HELP":                   "/start - maak een boeking\n/cancel - annuleer de huidige boeking\n/help - toon deze hulp",
		"NOTIFY_NEW_BOOKING":     "Nieuwe boeking #{ID}\n{PACKAGE}\n{BEGIN}\nTotaal: {TOTAL}\nBetaling: {PAYMENT}\nStatus: {STATUS}\nTG: @{USERNAME}",
		"PAYMENT_METHOD":         "Betaalmethode",
		"PHONE_INVALID":          "Vul een geldig telefoonnummer in.",
		"SESSION_RESTORE_FAILED": "Een deel van je boeking kon niet worden hersteld. Controleer je keuzes.",
		"UNKNOWN_COMMAND":        "Onbekend commando. Gebruik /start om te beginnen.",
		"USE_BUTTONS":            "Gebruik de knoppen.",
		"VOUCHER_ASK":            "Vul je tegoedboncode in:",
		"WELCOME":                "Welkom! Laten we een boeking maken.",

		"BUSY":                    "Je boeking wordt verwerkt, even geduld.",
		"DATE_INVALID":            "Kies eerst een geldige datum.",
		"DATE_UNAVAILABLE":        "Deze datum is niet beschikbaar.",
		"DISCOUNT_EMPTY":          "Vul een kortingscode in.",
		"DISCOUNT_INVALID":        "Ongeldige kortingscode.",
		"NO_PACKAGE":              "Kies eerst een arrangement.",
		"NO_PRODUCTS":             "Geen producten gekozen.",
		"PAYMENT_METHOD_INVALID":  "Deze betaalmethode is niet beschikbaar.",
		"QUANTITY_INVALID":        "Vul een heel getal van 0 of meer in.",
		"QUANTITY_TOO_HIGH":       "Dat is meer dan geboekt kan worden.",
		"SUBMIT_BLOCKED":          "De boeking is nog niet compleet.",
		"TIME_INVALID":            "Deze tijd is niet beschikbaar.",
		"TRANSPORT_FAILED":        "Er ging iets mis. Probeer het later opnieuw.",
		"UNKNOWN_LINE":            "Onbekend product.",
		"VOUCHER_ALREADY_APPLIED": "Tegoedbon is al toegepast.",
		"VOUCHER_EMPTY":           "Vul een tegoedboncode in.",
		"VOUCHER_INVALID":         "Ongeldige tegoedbon.",

		"BOOKING_DISABLED_AMOUNTS_INVALID":      "Vul geldige aantallen in.",
		"BOOKING_DISABLED_CONTACT_FORM_INVALID": "Vul het contactformulier in.",
		"BOOKING_DISABLED_INVALID_DATE":         "Kies een datum.",
		"BOOKING_DISABLED_INVALID_TIME":         "Kies een tijd.",
		"BOOKING_DISABLED_REQUIRED_PRODUCT":     "Sommige producten vereisen andere producten.",
	},
}
