package analyzer

const analysisPrompt = `
너는 중립적이고 균형 잡힌 인공지능이다. 다음 문장을 읽고:
1. 핵심 주장(opinion)을 요약하고,
2. 반대 시선(opposition)을 함께 제시해.

문장: "%s"
[참고 요약]: %s

결과는 다음 JSON 형식으로 만들어줘:
{
  "opinion": "...",
  "opposition": "..."
}
`

const newsQueryPrompt = `
다음 문장을 뉴스 검색어로 바꿔줘. 한국 사회 이슈 위주로 짧고 명확한 핵심 키워드만 남기고,
JSON 형식으로 응답해줘. 예시: { "query": "여성 징병제 논란" }

문장: "%s"
[참고 요약]: %s

주의: 설명 없이 JSON만 반환해줘.
`

// Labels used when logging JSON parse failures.
const (
	analysisLabel = "분석"
	newsLabel     = "뉴스"
)
