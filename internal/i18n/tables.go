package i18n

// Translation tables. Add new keys here for any user-facing text; every key
// must exist in both languages. Entries containing a %s verb are
// parameterized and filled by T's args.
var tables = map[Language]map[string]string{
	English: {
		// Header
		"loading": "Loading...",

		// Menu
		"menu":    "Menu",
		"ourMenu": "Our Menu",
		"search":  "Search menu...",
		"all":     "All",
		"close":   "✕",

		// Chat
		"messagePlaceholder": "Message...",
		"you":                "You",
		"assistant":          "Assistant",
		"typing":             "Typing...",

		// Welcome messages
		"welcome":         "Welcome to %s! How can I help you today?",
		"welcomeFallback": "Welcome! How can I help you?",

		// Errors
		"errorGeneric": "Sorry, I encountered an error. Please try again.",
		"errorTimeout": "The request timed out. Please try again.",
		"errorNetwork": "Network error. Please check your connection.",
		"errorInit":    "Failed to load. Please refresh the page.",

		// Order
		"yourOrder":      "Your Order",
		"total":          "Total",
		"note":           "Note",
		"orderSent":      "Order Sent!",
		"orderConfirmed": "Order Confirmed",
		"prepTime":       "20-30 minutes",
		"pickupLocation": "At the counter",
		"enjoy":          "Enjoy! 🎉",

		// Menu actions
		"tellMeAbout": "Tell me about %s",

		// Loading states
		"loadingMenu": "Loading menu...",
		"noItems":     "No items found",

		// Misc
		"chatService": "Chat Service",
	},

	Arabic: {
		// Header
		"loading": "جاري التحميل...",

		// Menu
		"menu":    "القائمة",
		"ourMenu": "قائمتنا",
		"search":  "ابحث في القائمة...",
		"all":     "الكل",
		"close":   "✕",

		// Chat
		"messagePlaceholder": "رسالة...",
		"you":                "أنت",
		"assistant":          "المساعد",
		"typing":             "يكتب...",

		// Welcome messages
		"welcome":         "مرحباً بك في %s! كيف يمكنني مساعدتك اليوم؟",
		"welcomeFallback": "مرحباً! كيف يمكنني مساعدتك؟",

		// Errors
		"errorGeneric": "عذراً، حدث خطأ. يرجى المحاولة مرة أخرى.",
		"errorTimeout": "انتهت مهلة الطلب. يرجى المحاولة مرة أخرى.",
		"errorNetwork": "خطأ في الشبكة. يرجى التحقق من اتصالك.",
		"errorInit":    "فشل التحميل. يرجى تحديث الصفحة.",

		// Order
		"yourOrder":      "طلبك",
		"total":          "الإجمالي",
		"note":           "ملاحظة",
		"orderSent":      "تم إرسال طلبك!",
		"orderConfirmed": "تم تأكيد الطلب",
		"prepTime":       "20-30 دقيقة",
		"pickupLocation": "من الكاشير",
		"enjoy":          "نتمنى لك تجربة ممتعة! 🎉",

		// Menu actions
		"tellMeAbout": "أخبرني عن %s",

		// Loading states
		"loadingMenu": "جاري تحميل القائمة...",
		"noItems":     "لا توجد عناصر",

		// Misc
		"chatService": "خدمة الدردشة",
	},
}

// Keys returns every translation key present in the given language table.
func Keys(lang Language) []string {
	keys := make([]string, 0, len(tables[lang]))
	for k := range tables[lang] {
		keys = append(keys, k)
	}
	return keys
}
