package i18n

// EnMessages 英文消息目录
// EnMessages English message catalog
var EnMessages = map[string]string{
	// TUI - panels
	"panel.chat":    "Chat",
	"panel.preview": "Preview",

	// TUI - status bar
	"status.ready":   "Ready",
	"status.waiting": "Waiting for gateway...",
	"status.mode":    "Mode: %s",
	"status.slides":  "%d slides",

	// TUI - input
	"input.placeholder": "Type a message or /help... (Enter to send)",

	// TUI - key hints
	"keys.hint": "enter send · ctrl+n new · ctrl+a add slide · ctrl+s save · tab focus · ctrl+c quit",

	// Draft flow
	"wizard.draft_prompt":         "Do you want me to do a first draft based on a content? (yes/no)",
	"wizard.yes_no":               "Please answer with \"yes\" or \"no\"",
	"wizard.tier_prompt":          "Please choose the number of slides:\n- brief (5-10 slides)\n- expanded (10-20 slides)\n- detailed (20-30 slides)",
	"wizard.tier_invalid":         "Please choose one of the following options:\n- brief\n- expanded\n- detailed",
	"wizard.content_prompt":       "Please provide the main content. Provide as much detail as possible.",
	"wizard.generating":           "Generating a %s presentation (%d-%d slides)...",
	"wizard.presentation_created": "Presentation created successfully with %d slides!",
	"wizard.presentation_failed":  "Sorry, there was an error creating the presentation. Please try again.",
	"wizard.empty_created":        "New empty presentation created! You can now add slides.",

	// Per-slide flow
	"slide.choice_prompt":   "How would you like to create the slide content?",
	"slide.choice_options":  "1. Type 'AI' to generate content using AI\n2. Type 'MANUAL' to write your own content",
	"slide.choice_invalid":  "Please type either 'AI' or 'MANUAL' to proceed.",
	"slide.ai_title_prompt": "Please enter a topic or title for the AI to generate content:",
	"slide.generating":      "Generating content for \"%s\"...",
	"slide.title_prompt":    "Please enter the title for the slide:",
	"slide.content_prompt":  "Please enter the content for the slide (use * for bullet points):",
	"slide.content_example": "Example:\n* Point 1: Description for point 1\n* Point 2: Description for point 2\n* Point 3: Description for point 3",
	"slide.created":         "Slide has been created successfully!",
	"slide.ai_created":      "Slide has been created with AI-generated content!",
	"slide.ai_failed":       "Error generating content. Please try manual input by typing 'MANUAL'.",
	"slide.layout_invalid":  "Unknown layout %q. Choose one of: boxes, versus, brain",

	// Presentation lifecycle
	"presentation.required":     "Please create or load a presentation first",
	"presentation.nothing":      "No presentation to save",
	"presentation.saved":        "Presentation saved successfully!",
	"presentation.saved_to":     "Presentation saved to %s",
	"presentation.save_failed":  "Error saving presentation. Please try again.",
	"presentation.loaded":       "Successfully loaded presentation: %s",
	"presentation.load_failed":  "Error uploading presentation. Please try again.",
	"presentation.invalid_file": "Please select a valid PowerPoint file (.ppt or .pptx)",

	// Dialogue housekeeping
	"dialogue.idle":  "Type /new to start a presentation or /add to add a slide.",
	"dialogue.busy":  "Still waiting for the previous request to finish.",
	"dialogue.stale": "A late response arrived for a prompt that is no longer active; it was ignored.",

	// Drafts
	"draft.saved":   "Draft saved: %s",
	"draft.opened":  "Draft opened: %s",
	"draft.deleted": "Draft deleted: %s",
	"draft.none":    "No drafts found",
	"draft.row":     "%s  %s  %d slides  %s",
	"draft.failed":  "Draft error: %s",
	"draft.usage":   "Usage: /draft save | list | open <id> | delete <id>",

	// Preview
	"preview.empty":     "No presentation loaded.",
	"preview.no_slides": "No slides yet. Use /add to add one.",
	"preview.untitled":  "Untitled slide",
	"preview.slide":     "Slide %d",

	// REPL
	"repl.welcome": "slidechat: gateway %s (%s mode). Type /help for commands.",
	"repl.unknown": "Unknown command: %s",
	"repl.usage":   "Usage: %s",
	"repl.bye":     "Bye.",
	"repl.changed": "%s · %d slide(s). Type /preview to view.",

	// Help
	"help.title":   "Commands:",
	"help.new":     "/new                 start a new presentation",
	"help.load":    "/load <path>         upload and load a .ppt/.pptx file",
	"help.add":     "/add [layout]        add a slide (boxes, versus, brain)",
	"help.save":    "/save [path]         save the presentation",
	"help.preview": "/preview             show the current preview",
	"help.draft":   "/draft <cmd> [id]    manage drafts (save, list, open, delete)",
	"help.exit":    "/exit                quit",

	// Preferences
	"prefs.colors_saved": "Style colors saved",
	"prefs.logo_saved":   "Logo settings saved!",
}
