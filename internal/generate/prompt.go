package generate

import (
	"fmt"
	"strings"

	"pixelforge/internal/util/jsonutil"
)

// tailwindHeadSnippet is required verbatim in single-document outputs so the
// preview renders with the expected theme and fonts.
const tailwindHeadSnippet = `<script src="https://cdn.tailwindcss.com"></script>
<script>
  tailwind.config = {
    theme: {
      extend: {
        colors: {
          'primary': '#7C3AED',
          'secondary': '#EC4899',
          'background': '#111827',
          'surface': '#1F2937',
          'on-surface': '#F9FAFB',
          'on-surface-secondary': '#9CA3AF',
        },
        fontFamily: {
          sans: ['Inter', 'sans-serif'],
        },
      },
    },
  }
</script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
<link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap" rel="stylesheet">
<style>body { font-family: 'Inter', sans-serif; background-color: #111827; }</style>`

func frameworkInstructions(fw Framework, lang Language, fileList bool) string {
	tsNote := ""
	if lang == LanguageTypeScript {
		tsNote = " Use TypeScript for all logic, including defining props and state types."
	}
	switch fw {
	case FrameworkHTMLCSSJS:
		return "- **HTML + CSS + JS Project:** Generate a project with three files: `index.html`, `style.css`, and `script.js`. The HTML file must link to the CSS and JS files correctly. All styles must be in `style.css` and all JavaScript logic in `script.js`."
	case FrameworkReact:
		return "- **React:** Use functional components and hooks. Use JSX for templating." + tsNote + " The component should be self-contained and ready to be used in a React application. Create a standard Vite project structure."
	case FrameworkVue:
		return "- **Vue:** Use a single-file component structure (`<template>`, `<script setup>`, `<style scoped>`). Use the Composition API with `<script setup>`." + tsNote + " For TypeScript, use `<script setup lang=\"ts\">`. Create a standard Vite project structure."
	case FrameworkSvelte:
		return "- **Svelte:** Use a standard Svelte component structure (`<script>`, markup, `<style>`)." + tsNote + " For TypeScript, use `<script lang=\"ts\">`. Create a standard SvelteKit project structure."
	case FrameworkAngular:
		return "- **Angular:** Generate files for a standalone component using inline templates and styles. Create a standard Angular CLI project structure." + tsNote
	case FrameworkVanillaJS:
		if fileList {
			return "- **Vanilla JS Project:** Generate a project structure with a main `index.html` and any necessary JavaScript in a separate file (e.g., `src/index.js`)."
		}
		return "- **Vanilla JS:** Generate a complete, single HTML file. Place any necessary JavaScript inside a `<script>` tag at the end of the `<body>`."
	default:
		if fileList {
			return "- **HTML Project:** Generate a project structure with a well-formed `index.html` as the main file."
		}
		return "- **HTML:** Ensure the output is a well-formed, single, complete HTML document starting with `<!DOCTYPE html>`."
	}
}

const figmaSourceInstructions = `
**FIGMA JSON DATA:**
- You have been provided with a JSON object representing the Figma node for this design.
- **THIS IS THE SOURCE OF TRUTH.** Use this JSON data to get the exact values for colors, font sizes, font families, dimensions, padding, borders, etc.
- Cross-reference the visual information from the image with the precise data from the JSON to create a pixel-perfect representation.

**AUTO LAYOUT TO FLEXBOX MAPPING (CRITICAL):**
- When a node has ` + "`layoutMode`" + `, it signifies a flex container. Map its properties to Tailwind CSS flexbox classes:
  - ` + "`layoutMode: 'HORIZONTAL'` -> `flex-row`; `layoutMode: 'VERTICAL'` -> `flex-col`" + `
  - ` + "`primaryAxisAlignItems`" + ` MIN/CENTER/MAX/SPACE_BETWEEN -> justify-start/justify-center/justify-end/justify-between
  - ` + "`counterAxisAlignItems`" + ` MIN/CENTER/MAX -> items-start/items-center/items-end
  - ` + "`itemSpacing`" + ` is the gap between items; use Tailwind gap-* classes.
  - padding* properties map to pt-*, pb-*, pl-*, pr-* classes.
  - Child nodes with ` + "`layoutGrow: 1`" + ` get flex-grow; ` + "`layoutAlign: 'STRETCH'`" + ` gets self-stretch.`

const urlSourceInstructions = `
**URL CLONING & ASSET HANDLING (CRITICAL):**
1.  **Analyze and Clone:** Clone the webpage found at the provided URL. Use your web search capabilities to analyze its structure (HTML), styling (CSS), and layout.
2.  **Recreate UI with Tailwind:** Recreate the visual appearance as closely as possible using the requested framework and **Tailwind CSS**. Focus **only** on the static UI; do not replicate backend logic, authentication, or dynamic data fetching.
3.  **Comprehensive CSS Processing:** Analyze CSS from external stylesheets, inline <style> blocks, and style attributes, and translate the rules into equivalent Tailwind utility classes.
4.  **Fallback for Complex Styles:** Styles with no Tailwind equivalent go into a separate CSS file (e.g. src/index.css) imported from the main entry point. Prioritize Tailwind heavily.
5.  **Asset URL Handling:** Use each asset's full, absolute URL. If an asset path is relative, convert it to an absolute URL by prepending the original domain. Never replace asset URLs with placeholders.
6.  **Generate a Complete Project:** The final output must be a complete project, not just a single component or file.`

func outputFormatInstructions(fileList bool) string {
	if fileList {
		return `
- You MUST provide the output as a **single JSON object** enclosed in a single markdown code block.
- The JSON object must contain two keys:
  1. "code": An array of file objects. Each object must have two keys: "path" (e.g., "src/App.tsx") and "content".
  2. "suggestions": A JSON array of 3-4 concise, actionable refinement suggestion strings.
- **DO NOT** add any extra explanations or text outside the single markdown code block.

**Example JSON Output:**
` + "```json" + `
{
  "code": [
    {"path": "src/App.tsx", "content": "import React from 'react';\n..."}
  ],
  "suggestions": [
    "Animate the header on scroll.",
    "Add a footer section.",
    "Implement a dark mode toggle."
  ]
}
` + "```"
	}
	return `
- You MUST provide the output as a **single JSON object** enclosed in a single markdown code block.
- The JSON object must contain two keys:
  1. "code": A single string containing the complete HTML file. This file MUST include the following scripts in its <head> for Tailwind CSS, theme configuration, and fonts:
` + "```html\n" + tailwindHeadSnippet + "\n```" + `
  2. "suggestions": A JSON array of 3-4 concise, actionable refinement suggestion strings.
- **DO NOT** add any extra explanations or text outside the single markdown code block.`
}

// basePrompt renders the generation prompt shared by the image, html, figma
// and url modes.
func basePrompt(mode Mode, fw Framework, lang Language, shape Shape) string {
	fileList := shape == ShapeFileList

	var source, extra string
	switch mode {
	case ModeImage:
		source = "UI design image"
	case ModeHTML:
		source = "HTML code"
	case ModeFigma:
		source = "UI design image and its corresponding Figma JSON data"
		extra = figmaSourceInstructions
	case ModeURL:
		source = "webpage URL"
		extra = urlSourceInstructions
	}

	styling := "2.  **Tailwind CSS:** Use ONLY Tailwind CSS classes for all styling. DO NOT use any custom CSS, inline 'style' attributes, or '<style>' tags (except for Vue/Svelte scoped styles or Angular inline styles which are part of the component structure)."
	if fw == FrameworkHTMLCSSJS {
		styling = "2.  **Standard CSS:** Write all CSS rules in a separate `style.css` file. Use clean, modern, and standard CSS. **DO NOT USE TAILWIND CSS.** The HTML file should not contain any `<style>` blocks or inline `style` attributes."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `You are an expert frontend developer and software architect specializing in converting UI designs into clean, responsive, and production-ready code.
Analyze the provided %s, generate a complete project structure for a %s application using %s, and provide refinement suggestions.

**CRITICAL REQUIREMENTS:**
1.  **Componentization:** Break down the design into logical, reusable components where appropriate. Create a clean, modern file structure suitable for the chosen framework.
%s
3.  **Framework-Specific Best Practices:**
    %s%s
4.  **Responsiveness:** The layout MUST be responsive and look great on all screen sizes. Use Tailwind's responsive prefixes (e.g., md:, lg:) extensively.
5.  **Placeholders:** For images use https://picsum.photos/WIDTH/HEIGHT; for avatars use a vector avatar service; use placeholder text when source text is illegible.
6.  **Code Quality:** Use semantic HTML tags where appropriate. The code must be clean, readable, and production-ready.
7.  **Output Format (THIS IS CRITICAL):**
    %s
`,
		source, fw.DisplayName(), lang.DisplayName(),
		styling,
		frameworkInstructions(fw, lang, fileList), extra,
		outputFormatInstructions(fileList))
	return sb.String()
}

// contentAdoptionPrompt renders the template-plus-content merge prompt.
func contentAdoptionPrompt(p *ContentPayload) string {
	modeText := "Improve and Add"
	if p.Adoption == AdoptionStrict {
		modeText = "Strict Content"
	}
	return fmt.Sprintf(`You are an intelligent content integration assistant. Your task is to take a user-provided HTML template and new content, and merge them into a single, clean HTML file.

**CRITICAL REQUIREMENTS:**
1.  **Preserve Head and Scripts:** You MUST preserve the original HTML's <head> section, including all <link>, <meta>, and <script> tags, and any external script tags found anywhere in the original file.
2.  **Content Integration Mode:** The user has selected the "%s" mode.
    - If the mode is "Improve and Add": Populate the HTML template with the new content and intelligently generate thematically matching placeholder content for sections the new content does not cover.
    - If the mode is "Strict Content": Use ONLY the provided content, and remove template sections for which no new content is provided.
3.  **Clean Code:** The final output must be a single, well-formed, and clean HTML file.
4.  **Output Format (THIS IS CRITICAL):**
    - You MUST provide the output as a **single JSON object** enclosed in a single markdown code block.
    - The JSON object must contain two keys:
        1. "code": A single string containing the complete, updated HTML file.
        2. "suggestions": A JSON array of 3-4 concise, actionable refinement suggestion strings.
    - **DO NOT** add any extra explanations or text outside the single markdown code block.

---

**HTML TEMPLATE TO USE:**
`+"```html\n%s\n```"+`

---

**NEW CONTENT TO APPLY:**
`+"```text\n%s\n```", modeText, p.Template, p.Content)
}

// refinePrompt renders the follow-up prompt for an existing result.
func refinePrompt(prior CodeOutput, history []ChatMessage, fw Framework, lang Language) string {
	var codeBlock, shapeText string
	if prior.Shape() == ShapeDocument {
		codeBlock = "```html\n" + prior.Document() + "\n```"
		shapeText = "a single string of HTML"
	} else {
		enc, _ := jsonutil.MarshalNoEscape(prior.Files())
		codeBlock = "```json\n" + string(enc) + "\n```"
		shapeText = "an array of file objects, maintaining the original structure"
	}

	var hist strings.Builder
	for _, m := range history {
		who := "User"
		if m.Author == AuthorAssistant {
			who = "AI"
		}
		fmt.Fprintf(&hist, "%s: %s\n", who, m.Text)
	}

	return fmt.Sprintf(`You are an expert frontend developer. You have previously generated the following code for a %s project using %s.

**PREVIOUS CODE:**
%s

You have been conversing with the user. Here is the history:

**CONVERSATION HISTORY:**
%s
Based on the full conversation, please apply the user's latest request to the code.
Provide the **complete, updated project code**. It is critical that you return the entire project, not just the changed parts.

Also, provide a brief, one-sentence response summarizing the changes you made. This response will be shown to the user in the chat.
Finally, provide 3-4 new, relevant refinement suggestions based on the updated code and the user's latest request.

**OUTPUT FORMAT (CRITICAL):**
You MUST provide the output as a single JSON object enclosed in a single markdown code block.
The JSON object must have three keys:
1.  "code": The updated code. This should be %s.
2.  "suggestions": An array of new refinement suggestion strings.
3.  "response": A string containing your summary of the changes.

Do not add any extra explanations or text outside the single markdown code block.`,
		fw.DisplayName(), lang.DisplayName(), codeBlock, hist.String(), shapeText)
}
