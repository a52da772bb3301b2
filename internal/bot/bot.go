// Package bot holds the Telegram command views.
package bot

const parseModeMarkdownV2 = "MarkdownV2"
