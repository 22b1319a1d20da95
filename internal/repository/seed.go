package repository

import (
	"time"

	"meetblog/internal/domain/models"
)

// Demo dataset written into an empty store on first start. IDs are stable
// human-readable slugs so that seeded content keeps its URLs across
// reinstalls.

func samplePosts() []models.Post {
	published := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)

	return []models.Post{
		{
			ID:    "9-chrome-extensions",
			Title: "9 лучших расширений Chrome для преобразования речи в текст",
			Slug:  "9-chrome-extensions",
			Content: `<p class="lead">В современном мире эффективность и скорость обработки информации играют ключевую роль в успехе любого бизнеса. Расширения Chrome для преобразования речи в текст стали незаменимыми инструментами для профессионалов различных сфер.</p>

<h2 id="intro">Введение</h2>
<p>Технологии распознавания речи значительно продвинулись за последние годы. Современные алгоритмы машинного обучения позволяют достигать точности более 95% в идеальных условиях.</p>

<h3 id="why-important">Почему это важно</h3>
<p>Скорость набора текста голосом в 3-4 раза превышает скорость печати на клавиатуре. Это особенно важно для:</p>
<ul>
  <li>Журналистов и контент-менеджеров</li>
  <li>Студентов и исследователей</li>
  <li>Людей с ограниченными возможностями</li>
  <li>Профессионалов, работающих в многозадачном режиме</li>
</ul>

<h2 id="top-extensions">ТОП-9 расширений Chrome</h2>
<p>Мы протестировали десятки расширений и выбрали лучшие по критериям точности, скорости и удобства использования.</p>

<h3 id="voice-in">1. Voice In Voice Typing</h3>
<p>Универсальное расширение для голосового ввода в любых текстовых полях браузера. Поддерживает более 120 языков и диалектов.</p>
<ul>
  <li>Работает на любом сайте</li>
  <li>Поддержка команд пунктуации</li>
  <li>Настраиваемые горячие клавиши</li>
  <li>Автоматическая капитализация</li>
</ul>

<h2 id="conclusion">Заключение</h2>
<p>Расширения Chrome для преобразования речи в текст значительно повышают продуктивность работы. Выбор конкретного инструмента зависит от ваших потребностей и бюджета.</p>`,
			Excerpt:    "Обзор самых эффективных браузерных расширений для транскрипции аудио в реальном времени. Сравнение функций и возможностей.",
			HeroImage:  "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=800&h=400&fit=crop",
			CategoryID: "tech-ai",
			Tags:       []string{"Chrome", "расширения", "транскрипция", "речь в текст", "ИИ"},
			AuthorID:   "andrey-shcherbina",
			Status:     models.StatusPublished,
			Featured:   true,
			Views:      1247,
			ReadTime:   8,
			PublishedAt: published,
			UpdatedAt:   published,
			SEOTitle:       "9 лучших расширений Chrome для преобразования речи в текст 2024",
			SEODescription: "Полный обзор лучших расширений Chrome для транскрипции речи в текст. Сравнение функций, точности и удобства использования.",
			SEOKeywords:    []string{"Chrome расширения", "речь в текст", "транскрипция", "voice to text", "диктовка"},
			TOC: []models.TOCEntry{
				{ID: "intro", Title: "Введение", Level: 1},
				{ID: "why-important", Title: "Почему это важно", Level: 2},
				{ID: "top-extensions", Title: "ТОП-9 расширений Chrome", Level: 1},
				{ID: "voice-in", Title: "1. Voice In Voice Typing", Level: 2},
				{ID: "conclusion", Title: "Заключение", Level: 1},
			},
		},
	}
}

func sampleCategories() []models.Category {
	return []models.Category{
		{
			ID:          "tech-ai",
			Name:        "Технологии и ИИ",
			Slug:        "tech-ai",
			Description: "Статьи о новых технологиях и искусственном интеллекте",
			Color:       "bg-blue-600",
			Image:       "https://images.unsplash.com/photo-1677442136019-21780ecad995?w=800&h=400&fit=crop",
		},
		{
			ID:          "task-management",
			Name:        "Управление задачами",
			Slug:        "task-management",
			Description: "Методы и инструменты для эффективного управления задачами",
			Color:       "bg-green-600",
			Image:       "https://images.unsplash.com/photo-1611224923853-80b023f02d71?w=800&h=400&fit=crop",
		},
		{
			ID:          "product-news",
			Name:        "Новости продукта",
			Slug:        "product-news",
			Description: "Обновления и новые функции mymeet.ai",
			Color:       "bg-purple-600",
			Image:       "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=800&h=400&fit=crop",
		},
		{
			ID:          "meeting-tips",
			Name:        "Советы по встречам",
			Slug:        "meeting-tips",
			Description: "Практические советы для проведения эффективных встреч",
			Color:       "bg-orange-600",
			Image:       "https://images.unsplash.com/photo-1517048676732-d65bc937f952?w=800&h=400&fit=crop",
		},
		{
			ID:          "customer-stories",
			Name:        "Истории клиентов",
			Slug:        "customer-stories",
			Description: "Реальные кейсы использования mymeet.ai",
			Color:       "bg-indigo-600",
			Image:       "https://images.unsplash.com/photo-1552664730-d307ca884978?w=800&h=400&fit=crop",
		},
		{
			ID:          "sales-art",
			Name:        "Искусство продаж",
			Slug:        "sales-art",
			Description: "Техники и стратегии успешных продаж",
			Color:       "bg-red-600",
			Image:       "https://images.unsplash.com/photo-1556745753-b2904692b3cd?w=800&h=400&fit=crop",
		},
	}
}

func sampleAuthors() []models.Author {
	return []models.Author{
		{
			ID:     "andrey-shcherbina",
			Name:   "Андрей Щербина",
			Email:  "andrey@mymeet.ai",
			Avatar: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&h=100&fit=crop&crop=face",
			Bio:    "Ведущий разработчик и эксперт по ИИ в mymeet.ai",
			SocialLinks: map[string]string{
				"twitter":  "https://twitter.com/andrey_ai",
				"linkedin": "https://linkedin.com/in/andrey-shcherbina",
			},
		},
		{
			ID:     "maria-petrov",
			Name:   "Мария Петрова",
			Email:  "maria@mymeet.ai",
			Avatar: "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=100&h=100&fit=crop&crop=face",
			Bio:    "Product Manager и эксперт по UX в mymeet.ai",
			SocialLinks: map[string]string{
				"linkedin": "https://linkedin.com/in/maria-petrova",
			},
		},
		{
			ID:     "team-mymeet",
			Name:   "Команда mymeet.ai",
			Email:  "team@mymeet.ai",
			Avatar: "https://images.unsplash.com/photo-1522071820081-009f0129c71c?w=800&h=400&fit=crop",
			Bio:    "Коллективный автор от команды mymeet.ai",
		},
	}
}
