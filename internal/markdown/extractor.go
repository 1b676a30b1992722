// Package markdown 从 Markdown 文档中提取题目候选
// 按二级及以下标题切分题目块，块内识别选项行、答案行、解析、难度与标签标记
package markdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"shuati_backend/internal/model"
)

var (
	headingNumberRe = regexp.MustCompile(`^\s*[（(]?(\d+)[）)]?\s*[\.。、]?`)
	optionLineRe    = regexp.MustCompile(`^\s*[（(]?([A-Ha-h])[）)]?\s*[\.。、．:：)]\s*(.+)$`)
	answerLineRe    = regexp.MustCompile(`^\s*(?:答案|参考答案|Answer)\s*[:：]\s*(.*)$`)
	analysisLineRe  = regexp.MustCompile(`^\s*(?:解析|详解|Explanation)\s*[:：]\s*(.*)$`)
	difficultyRe    = regexp.MustCompile(`^\s*(?:难度|Difficulty)\s*[:：]\s*(\d+)\s*$`)
	tagsLineRe      = regexp.MustCompile(`^\s*(?:标签|知识点|Tags?)\s*[:：]\s*(.*)$`)
	blankMarkRe     = regexp.MustCompile(`_{2,}|[（(]\s*[）)]`)
)

// Document 一次提取的完整结果
type Document struct {
	Title      string
	Candidates []model.Candidate
}

// Extract 解析文档并返回按出现顺序排列的题目候选。
// 提取是宽容的：格式残缺的题目块也会生成候选，字段缺失留空，
// 合法性由校验层统一裁决，提取本身不报错。
func Extract(doc string) Document {
	source := []byte(doc)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var result Document
	counter := 0
	var lines []string
	flush := func() {
		if lines == nil {
			return
		}
		counter++
		if cand, ok := buildCandidate(lines, counter); ok {
			result.Candidates = append(result.Candidates, cand)
		}
		lines = nil
	}

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			if n.Level == 1 {
				flush()
				if result.Title == "" {
					result.Title = strings.TrimSpace(nodeText(n, source))
				}
				continue
			}
			flush()
			lines = []string{}
			if heading := strings.TrimSpace(nodeText(n, source)); heading != "" {
				lines = append(lines, heading)
			}
		case *ast.List:
			if lines == nil {
				continue
			}
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if s := strings.TrimSpace(nodeText(item, source)); s != "" {
					lines = append(lines, s)
				}
			}
		default:
			if lines == nil {
				continue
			}
			for _, line := range strings.Split(nodeText(node, source), "\n") {
				if s := strings.TrimSpace(line); s != "" {
					lines = append(lines, s)
				}
			}
		}
	}
	flush()
	return result
}

// nodeText 收集节点下全部文本内容，软换行保留为换行
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.CodeSpan:
			for c := t.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					sb.Write(txt.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if n != node && sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// buildCandidate 把一个题目块的文本行装配为候选；全空块被丢弃
func buildCandidate(lines []string, ordinal int) (model.Candidate, bool) {
	cand := model.Candidate{Number: ordinal}

	var stemLines []string
	inAnalysis := false
	for i, line := range lines {
		if i == 0 {
			if m := headingNumberRe.FindStringSubmatch(line); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
					cand.Number = n
				}
				line = strings.TrimSpace(line[len(m[0]):])
				if line == "" {
					continue
				}
			}
		}
		switch {
		case answerLineRe.MatchString(line):
			cand.ReferenceAnswer = strings.TrimSpace(answerLineRe.FindStringSubmatch(line)[1])
			inAnalysis = false
		case analysisLineRe.MatchString(line):
			inAnalysis = true
			if s := strings.TrimSpace(analysisLineRe.FindStringSubmatch(line)[1]); s != "" {
				cand.Analysis = append(cand.Analysis, s)
			}
		case difficultyRe.MatchString(line):
			if n, err := strconv.Atoi(difficultyRe.FindStringSubmatch(line)[1]); err == nil {
				cand.Difficulty = n
			}
			inAnalysis = false
		case tagsLineRe.MatchString(line):
			cand.KnowledgeTags = append(cand.KnowledgeTags, splitTags(tagsLineRe.FindStringSubmatch(line)[1])...)
			inAnalysis = false
		case optionLineRe.MatchString(line):
			m := optionLineRe.FindStringSubmatch(line)
			cand.Options = append(cand.Options, model.Option{
				Label:   strings.ToUpper(m[1]),
				Content: strings.TrimSpace(m[2]),
			})
			inAnalysis = false
		case inAnalysis:
			cand.Analysis = append(cand.Analysis, line)
		default:
			stemLines = append(stemLines, line)
		}
	}

	cand.Stem = strings.TrimSpace(strings.Join(stemLines, "\n"))
	cand.QuestionType = guessType(cand)
	if cand.Stem == "" && len(cand.Options) == 0 && cand.ReferenceAnswer == "" {
		return model.Candidate{}, false
	}
	return cand, true
}

func splitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，' || r == ';' || r == '；' || r == ' '
	})
	var tags []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// guessType 根据选项数量与题干特征推断题型，只是初判，以校验结果为准
func guessType(cand model.Candidate) string {
	if len(cand.Options) >= 2 {
		return model.TypeMultipleChoice
	}
	if blankMarkRe.MatchString(cand.Stem) || strings.Contains(cand.Stem, "填空") {
		return model.TypeFillInTheBlank
	}
	return model.TypeEssay
}
