package constant

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"

	UserTypeTeacher = "teacher"
	UserTypeStudent = "student"
)

const (
	// GroundingInstruction is the system instruction used when a lesson file
	// is attached to a teacher turn.
	GroundingInstruction = "您是一位AI教學助手。\n請基於上述內容來回答問題。如果需要引入新的例子或故事，請確保與原始課程內容保持關聯。"

	ContextMessagePrefix = "相關上下文：\n\n"

	// StudentInstruction must refer to the teacher ("根據老師") and never to
	// "以前的對話紀錄".
	StudentInstruction = "您是一位AI教學助手，以下是先前教師和AI助手的對話紀錄，你需要根據這些對話紀錄，回應學生，記住，不要提到「以前的對話紀錄」，改為「根據老師」。現在開始我是學生。"

	TeacherHistoryMarker = "以上是教師的對話紀錄"

	SummaryInstruction = "以下為教師傳給 AI 的問題，請用一段文字總結教師的問題，不要加上主詞"

	FeedbackInstruction = "您是一位 AI 助教，請根據以下對話歷史生成一個詳細的總結，幫助老師了解學生的學習狀況。"
	FeedbackPromptHead  = "請總結以下對話的重點，幫助老師了解學生的學習狀況，如果對話是空白的，則回覆學生尚未進行對話：\n\n"
	FeedbackStudentLine = "學生說: %s "
	FeedbackTutorLine   = "AI 助教回: %s \n\n"
)

const (
	ApologyAnswer   = "抱歉，我無法處理您的請求。"
	SummaryFallback = "無法生成摘要。"
	NoSummary       = "No summary available"

	FeedbackMaxTokens = 1500
)
