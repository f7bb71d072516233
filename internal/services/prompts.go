package services

import (
	"fmt"
	"strings"

	"marcenapp/internal/models"
)

// Prompt builders for the generation flows. Prompts are written in
// Portuguese, matching the app's audience, and always restate the project
// context so each call is self-contained.

func renderPrompt(description, style string, finish *models.SelectedFinish) string {
	var sb strings.Builder
	sb.WriteString("Gere uma imagem fotorrealista de um móvel planejado sob medida: ")
	sb.WriteString(description)
	if style != "" {
		fmt.Fprintf(&sb, ". Estilo: %s", style)
	}
	if line := finishLine(finish); line != "" {
		sb.WriteString(". ")
		sb.WriteString(line)
	}
	sb.WriteString(". Ambiente interno bem iluminado, perspectiva de catálogo de marcenaria, alta qualidade, sem pessoas e sem texto na imagem.")
	return sb.String()
}

func additionalViewPrompt(project *models.Project, angle, notes string) string {
	var sb strings.Builder
	sb.WriteString("Gere uma nova vista fotorrealista do MESMO móvel da imagem de referência, mantendo dimensões, materiais, cores e acabamento idênticos. ")
	fmt.Fprintf(&sb, "Móvel: %s. %s", project.Name, project.Description)
	if angle != "" {
		fmt.Fprintf(&sb, ". Ângulo desejado: %s", angle)
	}
	if notes != "" {
		fmt.Fprintf(&sb, ". Observações: %s", notes)
	}
	sb.WriteString(". Não altere o projeto, apenas o ponto de vista.")
	return sb.String()
}

func floorPlanPrompt(project *models.Project, dimensions string) string {
	var sb strings.Builder
	sb.WriteString("Gere uma planta baixa técnica 2D, em preto e branco, vista superior, com cotas em centímetros, do seguinte móvel planejado: ")
	fmt.Fprintf(&sb, "%s. %s", project.Name, project.Description)
	if dimensions != "" {
		fmt.Fprintf(&sb, ". Dimensões informadas pelo marceneiro: %s", dimensions)
	}
	sb.WriteString(". Estilo de desenho técnico de marcenaria, linhas limpas, sem cores e sem perspectiva.")
	return sb.String()
}

func bomPrompt(project *models.Project) string {
	var sb strings.Builder
	sb.WriteString("Você é um marceneiro experiente. Gere a lista de materiais (chapas, fitas de borda, ferragens, corrediças, dobradiças, puxadores e parafusos) para fabricar o móvel abaixo. ")
	sb.WriteString("Responda em texto corrido organizado por categoria, com quantidades e medidas em milímetros.\n\n")
	writeProjectContext(&sb, project)
	return sb.String()
}

func cuttingPlanPrompt(project *models.Project) string {
	var sb strings.Builder
	sb.WriteString("Você é um marceneiro experiente. Monte o plano de corte do móvel abaixo usando chapas padrão de 2750x1850mm. ")
	sb.WriteString(`Responda APENAS com JSON no formato {"plano": "...", "dicasOtimizacao": "..."}, sem nenhum texto fora do JSON. `)
	sb.WriteString("Em \"plano\", liste cada peça com nome, quantidade e medidas; em \"dicasOtimizacao\", explique como reduzir o desperdício de chapa.\n\n")
	writeProjectContext(&sb, project)
	return sb.String()
}

func cuttingDiagramPrompt(project *models.Project, plan string) string {
	return fmt.Sprintf(
		"Gere um diagrama técnico 2D de plano de corte em uma chapa de MDF 2750x1850mm para o móvel %q. "+
			"Represente os retângulos das peças com rótulos e medidas, fundo branco, traços pretos, sem perspectiva. Peças: %s",
		project.Name, plan)
}

func assemblyPrompt(project *models.Project) string {
	var sb strings.Builder
	sb.WriteString("Você é um marceneiro experiente. Escreva o passo a passo de montagem do móvel abaixo, em português, numerado, citando as ferragens usadas em cada etapa e os cuidados de esquadro e nivelamento.\n\n")
	writeProjectContext(&sb, project)
	return sb.String()
}

func stylesPrompt(description string) string {
	return fmt.Sprintf(
		"Sugira 4 estilos de design de móveis adequados para: %s. "+
			`Responda APENAS com JSON no formato [{"nome": "...", "descricao": "..."}], sem nenhum texto fora do JSON. `+
			"Descrições curtas, em português, voltadas a clientes de marcenaria.",
		description)
}

func costsPrompt(project *models.Project) string {
	var sb strings.Builder
	sb.WriteString("Você é um orçamentista de marcenaria no Brasil. Estime os custos de fabricação do móvel abaixo em reais. ")
	sb.WriteString(`Responda APENAS com JSON no formato {"material": 0, "maoDeObra": 0, "frete": 0}, valores numéricos em BRL, sem nenhum texto fora do JSON.`)
	sb.WriteString("\n\n")
	writeProjectContext(&sb, project)
	return sb.String()
}

func proposalPrompt(project *models.Project) string {
	var sb strings.Builder
	sb.WriteString("Escreva uma proposta comercial em Markdown, em português, para o cliente ")
	if project.ClientName != "" {
		sb.WriteString(project.ClientName)
	} else {
		sb.WriteString("final")
	}
	sb.WriteString(", apresentando o móvel abaixo: descrição do projeto, materiais e acabamento, prazo estimado e condições de pagamento sugeridas. Tom profissional e cordial, sem inventar valores que não foram informados.\n\n")
	writeProjectContext(&sb, project)

	if project.MaterialCost != nil || project.LaborCost != nil || project.ShippingCost != nil {
		sb.WriteString("\nCustos informados (use-os na proposta):")
		if project.MaterialCost != nil {
			fmt.Fprintf(&sb, " material R$ %.2f;", *project.MaterialCost)
		}
		if project.LaborCost != nil {
			fmt.Fprintf(&sb, " mão de obra R$ %.2f;", *project.LaborCost)
		}
		if project.ShippingCost != nil {
			fmt.Fprintf(&sb, " frete R$ %.2f;", *project.ShippingCost)
		}
	}
	return sb.String()
}

func supplierQuery(query string) string {
	return fmt.Sprintf(
		"Pesquise preços e fornecedores atuais no Brasil para: %s. "+
			"Resuma as opções encontradas com faixa de preço e onde comprar.",
		query)
}

func writeProjectContext(sb *strings.Builder, project *models.Project) {
	fmt.Fprintf(sb, "Móvel: %s\nDescrição: %s\n", project.Name, project.Description)
	if project.Style != "" {
		fmt.Fprintf(sb, "Estilo: %s\n", project.Style)
	}
	if line := finishLine(project.SelectedFinish); line != "" {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if project.BOMText != "" {
		fmt.Fprintf(sb, "Lista de materiais já definida:\n%s\n", project.BOMText)
	}
}

func finishLine(finish *models.SelectedFinish) string {
	if finish == nil {
		return ""
	}
	line := fmt.Sprintf("Acabamento: %s da fabricante %s", finish.Finish.Name, finish.Manufacturer)
	if finish.Finish.Type != "" {
		line += fmt.Sprintf(" (%s)", finish.Finish.Type)
	}
	if finish.HandleDetail != "" {
		line += fmt.Sprintf(", puxadores: %s", finish.HandleDetail)
	}
	return line
}
