package service

import "strings"

// Простейший чат-бот на ключевых словах: без состояния и без внешних
// зависимостей, отвечает заготовленными репликами по теме вопроса.

type botTopic struct {
	keywords  []string
	responses []string
}

var botTopics = []botTopic{
	{
		keywords: []string{"hello", "hi", "hey"},
		responses: []string{
			"Hello! Welcome to FixLink. How can I help you today?",
			"Hi there! I'm here to help you find the perfect service provider.",
			"Welcome to FixLink! What service do you need today?",
		},
	},
	{
		keywords: []string{"service", "what", "offer"},
		responses: []string{
			"We offer various services including plumbing, electrical, cleaning, gardening, painting, and carpentry.",
			"Our providers offer professional services in multiple categories. What type of service are you looking for?",
			"We have skilled providers for plumbing, electrical work, cleaning, gardening, painting, and carpentry services.",
		},
	},
	{
		keywords: []string{"book", "schedule", "appointment"},
		responses: []string{
			"To book a service, you'll need to create an account and browse our available providers.",
			"Booking is easy! Just sign up, find a provider, and schedule your service.",
			"You can book services by creating an account and selecting from our verified providers.",
		},
	},
	{
		keywords: []string{"price", "cost", "rate"},
		responses: []string{
			"Pricing varies by service type and provider. Each provider sets their own rates.",
			"Our providers offer competitive pricing. You can view rates when browsing services.",
			"Prices depend on the service and provider. Check individual service listings for rates.",
		},
	},
	{
		keywords: []string{"help", "support", "contact"},
		responses: []string{
			"For support, please create an account and use our in-app chat feature.",
			"You can contact our support team through the chat feature after signing up.",
			"We're here to help! Use our chat feature for personalized support.",
		},
	},
}

const botFallback = "I'm not sure how to help with that. Could you please rephrase your question?"

// BotReply подбирает ответ по первому совпавшему ключевому слову.
// Вариант внутри темы выбирается детерминированно по длине сообщения,
// чтобы ответы не были однообразными, но оставались воспроизводимыми.
func BotReply(message string) string {
	lower := strings.ToLower(message)
	for _, topic := range botTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				return topic.responses[len(message)%len(topic.responses)]
			}
		}
	}
	return botFallback
}
