package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// TUI - 面板标题
	"panel.chat":    "对话",
	"panel.preview": "预览",

	// TUI - 状态栏
	"status.ready":   "就绪",
	"status.waiting": "等待网关响应...",
	"status.mode":    "模式: %s",
	"status.slides":  "%d 页",

	// TUI - 输入
	"input.placeholder": "输入消息或 /help... (回车发送)",

	// TUI - 快捷键提示
	"keys.hint": "enter 发送 · ctrl+n 新建 · ctrl+a 添加幻灯片 · ctrl+s 保存 · tab 切换焦点 · ctrl+c 退出",

	// 初稿流程
	"wizard.draft_prompt":         "需要我根据内容生成初稿吗？(yes/no)",
	"wizard.yes_no":               "请回答 \"yes\" 或 \"no\"",
	"wizard.tier_prompt":          "请选择幻灯片数量:\n- brief (5-10 页)\n- expanded (10-20 页)\n- detailed (20-30 页)",
	"wizard.tier_invalid":         "请从以下选项中选择:\n- brief\n- expanded\n- detailed",
	"wizard.content_prompt":       "请提供主要内容，越详细越好。",
	"wizard.generating":           "正在生成 %s 演示文稿 (%d-%d 页)...",
	"wizard.presentation_created": "演示文稿创建成功，共 %d 页！",
	"wizard.presentation_failed":  "抱歉，创建演示文稿时出错，请重试。",
	"wizard.empty_created":        "已创建新的空白演示文稿！现在可以添加幻灯片。",

	// 单页流程
	"slide.choice_prompt":   "你希望如何创建这页幻灯片的内容？",
	"slide.choice_options":  "1. 输入 'AI' 使用 AI 生成内容\n2. 输入 'MANUAL' 手动编写内容",
	"slide.choice_invalid":  "请输入 'AI' 或 'MANUAL' 继续。",
	"slide.ai_title_prompt": "请输入供 AI 生成内容的主题或标题:",
	"slide.generating":      "正在为 \"%s\" 生成内容...",
	"slide.title_prompt":    "请输入幻灯片标题:",
	"slide.content_prompt":  "请输入幻灯片内容 (使用 * 表示要点):",
	"slide.content_example": "示例:\n* 要点 1: 要点 1 的说明\n* 要点 2: 要点 2 的说明\n* 要点 3: 要点 3 的说明",
	"slide.created":         "幻灯片创建成功！",
	"slide.ai_created":      "已使用 AI 生成的内容创建幻灯片！",
	"slide.ai_failed":       "生成内容出错。请输入 'MANUAL' 改为手动输入。",
	"slide.layout_invalid":  "未知版式 %q，可选: boxes, versus, brain",

	// 演示文稿生命周期
	"presentation.required":     "请先创建或加载演示文稿",
	"presentation.nothing":      "没有可保存的演示文稿",
	"presentation.saved":        "演示文稿保存成功！",
	"presentation.saved_to":     "演示文稿已保存到 %s",
	"presentation.save_failed":  "保存演示文稿出错，请重试。",
	"presentation.loaded":       "已成功加载演示文稿: %s",
	"presentation.load_failed":  "上传演示文稿出错，请重试。",
	"presentation.invalid_file": "请选择有效的 PowerPoint 文件 (.ppt 或 .pptx)",

	// 对话
	"dialogue.idle":  "输入 /new 开始新的演示文稿，或 /add 添加幻灯片。",
	"dialogue.busy":  "仍在等待上一个请求完成。",
	"dialogue.stale": "收到一个已失效提示的延迟响应，已忽略。",

	// 草稿
	"draft.saved":   "草稿已保存: %s",
	"draft.opened":  "已打开草稿: %s",
	"draft.deleted": "已删除草稿: %s",
	"draft.none":    "没有草稿",
	"draft.failed":  "草稿错误: %s",
	"draft.usage":   "用法: /draft save | list | open <id> | delete <id>",

	// 预览
	"preview.empty":     "尚未加载演示文稿。",
	"preview.no_slides": "还没有幻灯片，使用 /add 添加。",
	"preview.untitled":  "未命名幻灯片",
	"preview.slide":     "第 %d 页",

	// REPL
	"repl.welcome": "slidechat: 网关 %s (%s 模式)。输入 /help 查看命令。",
	"repl.unknown": "未知命令: %s",
	"repl.usage":   "用法: %s",
	"repl.bye":     "再见。",
	"repl.changed": "%s · %d 页。输入 /preview 查看。",

	// 帮助
	"help.title":   "命令:",
	"help.new":     "/new                 新建演示文稿",
	"help.load":    "/load <路径>         上传并加载 .ppt/.pptx 文件",
	"help.add":     "/add [版式]          添加幻灯片 (boxes, versus, brain)",
	"help.save":    "/save [路径]         保存演示文稿",
	"help.preview": "/preview             显示当前预览",
	"help.draft":   "/draft <cmd> [id]    管理本地草稿 (save, list, open, delete)",
	"help.exit":    "/exit                退出",

	// 偏好设置
	"prefs.colors_saved": "样式颜色已保存",
	"prefs.logo_saved":   "Logo 设置已保存！",
}
