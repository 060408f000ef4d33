package digest

import "fmt"

const summaryPrompt = `Summarize the following group conversation. Focus on:
- Key decisions made
- Tasks assigned or mentioned
- Important discussions
- Deadlines or time-sensitive items

Conversation:
%s

Provide a clear, organized summary in English:`

const actionItemsPrompt = `Analyze this conversation and extract ONLY action items that are specifically for "%[1]s".

Look for things that %[1]s personally needs to do:
- Tasks directly assigned to %[1]s by name
- Messages that mention "@%[1]s"
- Questions or requests directed specifically at %[1]s
- Deadlines that %[1]s personally needs to meet
- Things %[1]s needs to respond to or follow up on

DO NOT include:
- General group announcements
- Tasks assigned to other people
- Questions asked to the group in general (unless %[1]s is specifically mentioned)

Conversation:
%[2]s

Format response as:
• [Specific action item for %[1]s]

If no specific personal action items found for %[1]s, return "%[3]s"
Respond in English only.`

const answerPrompt = `Based on this group conversation, answer the following question from %s:

Question: %s

Conversation context:
%s

Provide a helpful answer based on the conversation. If the information isn't available in the conversation, say so clearly.
Respond in English only.`

const transcribePrompt = `Please transcribe the speech from this audio file.
The audio is a voice message from a messaging app.

Return only the transcribed text without any additional commentary.
If you cannot understand the audio clearly, please respond with "` + UnclearAudio + `"`

// UnclearAudio is the phrase the model is told to answer with for
// unintelligible audio.
const UnclearAudio = "Audio unclear, could not transcribe."

const noActionItems = "No personal action items found for you in these messages."

func buildSummaryPrompt(conversation string) string {
	return fmt.Sprintf(summaryPrompt, conversation)
}

func buildActionItemsPrompt(user, conversation string) string {
	return fmt.Sprintf(actionItemsPrompt, user, conversation, noActionItems)
}

func buildAnswerPrompt(user, question, conversation string) string {
	return fmt.Sprintf(answerPrompt, user, question, conversation)
}
