package gemini

// SessionSeedInstruction is the fixed opening turn of the shared chat
// session, asking the model to answer in Traditional Chinese.
const SessionSeedInstruction = "請以繁體中文回應"

// FallbackMessage is returned to the user whenever a Gemini call fails.
// The caller never sees the underlying error.
const FallbackMessage = "很抱歉，我們無法回答您的問題，請稍後再試。"

// DefaultLanguage is assumed when language detection fails.
const DefaultLanguage = "zh-TW"

// DetectLanguagePrefix is prepended to the user's text to ask the model
// for nothing but the language name.
const DetectLanguagePrefix = "What language is this text in? Just respond the language name: "

// TranslatePrefix is prepended to text that must be rendered in English
// before it is forwarded to the image service.
const TranslatePrefix = "Translate the following text to English: "
