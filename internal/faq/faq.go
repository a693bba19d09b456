// Package faq answers free-text questions from a fixed table of canned
// responses, picked by keyword overlap. It always produces an answer.
package faq

import "strings"

type entry struct {
	keywords []string
	response string
}

// Table order matters: on a score tie the earlier entry wins.
var entries = []entry{
	{
		keywords: []string{"你好", "你是谁", "介绍"},
		response: "你好！我是视频学习平台的助手，可以帮你解答学习相关的问题。",
	},
	{
		keywords: []string{"学习", "方法", "技巧"},
		response: "高效学习的方法：1. 集中注意力；2. 定期复习；3. 做好笔记；4. 制定计划；5. 分块学习。",
	},
	{
		keywords: []string{"数学", "解题"},
		response: "数学解题技巧：1. 理解题目；2. 画图辅助思考；3. 寻找已知条件与目标的联系；4. 尝试多种方法；5. 检查答案。",
	},
	{
		keywords: []string{"语文", "作文", "写作"},
		response: "写好作文的技巧：1. 积累素材；2. 构思清晰；3. 开头结尾要精彩；4. 多用修辞手法；5. 多读多写多练习。",
	},
	{
		keywords: []string{"英语", "单词", "记忆"},
		response: "记忆英语单词的方法：1. 分类记忆；2. 联想记忆；3. 场景记忆；4. 重复复习；5. 实际应用。",
	},
	{
		keywords: []string{"视频", "推荐", "推送"},
		response: "系统会根据您的观看记录和学习习惯自动推荐适合您的视频，建议您多观看一些视频，系统会更了解您的喜好。",
	},
	{
		keywords: []string{"密码", "忘记", "重置"},
		response: "如果忘记密码，请联系管理员重置。",
	},
	{
		keywords: []string{"反馈", "建议", "问题"},
		response: "您可以通过页面上的反馈功能提交您的意见和建议，我们会认真听取并改进。",
	},
	{
		keywords: []string{"谢谢", "感谢"},
		response: "不客气！如果还有其他问题，随时可以向我提问。",
	},
}

const (
	emptyResponse   = "请输入您的问题，我会尽力回答。"
	noMatchResponse = "抱歉，我目前无法回答这个问题。请尝试用不同的方式提问，或者咨询其他问题。"
)

const punctuation = `.,?!;:'"()[]{}`

// Answer scores every table entry against the question and returns the best
// match, or a fallback when nothing scores. A keyword found whole in the
// question is worth 2; otherwise each token that contains the keyword (or
// vice versa) is worth 1. Scores accumulate across keywords and tokens.
func Answer(question string) string {
	if strings.TrimSpace(question) == "" {
		return emptyResponse
	}

	clean := strings.TrimSpace(stripPunctuation(strings.ToLower(question)))
	tokens := strings.Fields(clean)

	bestScore := 0
	bestResponse := ""
	for _, e := range entries {
		score := 0
		for _, kw := range e.keywords {
			if strings.Contains(clean, kw) {
				score += 2
				continue
			}
			for _, tok := range tokens {
				if strings.Contains(kw, tok) || strings.Contains(tok, kw) {
					score++
				}
			}
		}
		if score > bestScore {
			bestScore = score
			bestResponse = e.response
		}
	}
	if bestScore == 0 {
		return noMatchResponse
	}
	return bestResponse
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
}
