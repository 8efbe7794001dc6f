package ai

import "strings"

// NoRecipeMarker is the value the model puts in "error" when the text holds no recipe.
const NoRecipeMarker = "見つかりませんでした"

// RecipeExtractionPrompt is the system instruction shared by every text extractor.
const RecipeExtractionPrompt = `あなたはウェブページやテキストからレシピ情報を抽出するアシスタントです。
与えられたテキストからレシピの情報を抽出し、以下のJSON形式で返してください：
{
  "name": "レシピ名",
  "ingredients": "材料リスト（改行区切り）",
  "instructions": "作り方（改行区切り）"
}

もしレシピが見つからない、または抽出に失敗した場合は、{"error": "` + NoRecipeMarker + `"} という形式のJSONを返してください。`

const extractionRequestPrefix = "以下のテキストからレシピ情報を抽出してください：\n\n"

// BuildExtractionRequest wraps page or pasted text into the user turn.
func BuildExtractionRequest(text string) string {
	return extractionRequestPrefix + text
}

const classificationRoleSection = `You are an intelligent document analysis assistant. Your task is to analyze the provided file (image or PDF) and determine its content type.`

const classificationStepsSection = `1.  **First, classify the content.** Is it:
    a) A single, direct recipe.
    b) A list of URLs pointing to recipe websites.
    c) Neither of the above.

2.  **Based on the classification, format your response as a single, valid JSON object with NO other text or markdown.**`

const classificationRecipeSection = `*   **If it's a single recipe (a):**
    Return a JSON object with "type": "recipe" and a "data" object containing the extracted recipe details.
    Example:
    {
      "type": "recipe",
      "data": {
        "name": "チョコレートチップクッキー",
        "ingredients": "薄力粉: 200g\nバター: 100g...",
        "instructions": "1. バターと砂糖を混ぜます。..."
      }
    }`

const classificationURLListSection = `*   **If it's a list of URLs (b):**
    Return a JSON object with "type": "url_list" and a "data" array containing all the extracted URLs as strings.
    Example:
    {
      "type": "url_list",
      "data": [
        "https://cookpad.com/recipe/12345",
        "https://www.kyounoryouri.jp/recipe/6789.html"
      ]
    }`

const classificationUnknownSection = `*   **If it's neither (c):**
    Return a JSON object with "type": "unknown".
    Example:
    {
      "type": "unknown",
      "data": null
    }`

// FileClassificationPrompt instructs the multimodal model to sort an upload
// into recipe, url_list or unknown.
var FileClassificationPrompt = strings.Join([]string{
	classificationRoleSection,
	classificationStepsSection,
	classificationRecipeSection,
	classificationURLListSection,
	classificationUnknownSection,
}, "\n\n")
