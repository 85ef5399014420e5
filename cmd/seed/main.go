package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/db"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/repos"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

type seedSlot struct {
	ID       string  `yaml:"id" json:"id"`
	X        float64 `yaml:"x" json:"x"`
	Y        float64 `yaml:"y" json:"y"`
	Width    float64 `yaml:"width" json:"width"`
	Height   float64 `yaml:"height" json:"height"`
	Rotation float64 `yaml:"rotation" json:"rotation,omitempty"`
	ZIndex   int     `yaml:"z_index" json:"z_index"`
	Fit      string  `yaml:"fit" json:"fit,omitempty"`
}

type seedTemplate struct {
	Name  string     `yaml:"name"`
	Base  string     `yaml:"base"`
	Slots []seedSlot `yaml:"slots"`
}

type seedProduct struct {
	Name        string         `yaml:"name"`
	Slug        string         `yaml:"slug"`
	Description string         `yaml:"description"`
	PriceCents  int            `yaml:"price_cents"`
	Templates   []seedTemplate `yaml:"templates"`
}

type seedCatalog struct {
	Products []seedProduct `yaml:"products"`
}

func main() {
	var catalogPath string
	var dryRun bool
	flag.StringVar(&catalogPath, "catalog", "seed/catalog.yaml", "path to the catalog YAML")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned rows without writing")
	flag.Parse()

	raw, err := os.ReadFile(catalogPath)
	if err != nil {
		fmt.Printf("read catalog: %v\n", err)
		os.Exit(1)
	}
	var catalog seedCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		fmt.Printf("parse catalog: %v\n", err)
		os.Exit(1)
	}
	if len(catalog.Products) == 0 {
		fmt.Println("catalog has no products")
		return
	}

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		fmt.Printf("init postgres: %v\n", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		fmt.Printf("auto migrate: %v\n", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	mediaStore, err := services.NewMediaStore(log)
	if err != nil {
		fmt.Printf("init media store: %v\n", err)
		os.Exit(1)
	}
	productRepo := repos.NewProductRepo(thePG, log)
	templateRepo := repos.NewLayoutTemplateRepo(thePG, log)
	productService := services.NewProductService(log, productRepo, mediaStore)
	templateService := services.NewTemplateService(log, productRepo, templateRepo, mediaStore)

	ctx := context.Background()
	createdProducts := 0
	createdTemplates := 0

	for _, sp := range catalog.Products {
		slug := sp.Slug
		if slug == "" {
			slug = services.Slugify(sp.Name)
		}

		product, err := productRepo.GetBySlug(ctx, nil, slug)
		if err != nil {
			fmt.Printf("lookup product %q: %v\n", slug, err)
			os.Exit(1)
		}
		if product == nil {
			if dryRun {
				fmt.Printf("[dry-run] create product %q (slug %s)\n", sp.Name, slug)
			} else {
				product, err = productService.Create(ctx, &types.Product{
					Name:        sp.Name,
					Slug:        slug,
					Description: sp.Description,
					PriceCents:  sp.PriceCents,
				})
				if err != nil {
					fmt.Printf("create product %q: %v\n", sp.Name, err)
					os.Exit(1)
				}
				createdProducts++
				fmt.Printf("created product %q (%s)\n", sp.Name, product.ID)
			}
		} else {
			fmt.Printf("product %q exists, skipping\n", slug)
		}

		for _, st := range sp.Templates {
			if dryRun || product == nil {
				fmt.Printf("[dry-run] create template %q for %q (%d slots)\n", st.Name, slug, len(st.Slots))
				continue
			}

			existing, err := templateRepo.GetByProductID(ctx, nil, product.ID)
			if err != nil {
				fmt.Printf("lookup templates for %q: %v\n", slug, err)
				os.Exit(1)
			}
			already := false
			for _, row := range existing {
				if row != nil && row.Name == st.Name {
					already = true
					break
				}
			}
			if already {
				fmt.Printf("template %q for %q exists, skipping\n", st.Name, slug)
				continue
			}

			slotsJSON, err := json.Marshal(st.Slots)
			if err != nil {
				fmt.Printf("marshal slots for template %q: %v\n", st.Name, err)
				os.Exit(1)
			}
			baseFile, err := os.Open(st.Base)
			if err != nil {
				fmt.Printf("open base image %q: %v\n", st.Base, err)
				os.Exit(1)
			}
			template, err := templateService.Create(ctx, product.ID, st.Name, st.Base, baseFile, slotsJSON)
			baseFile.Close()
			if err != nil {
				fmt.Printf("create template %q: %v\n", st.Name, err)
				os.Exit(1)
			}
			createdTemplates++
			fmt.Printf("created template %q (%s) base %dx%d\n", st.Name, template.ID, template.BaseWidth, template.BaseHeight)
		}
	}

	fmt.Printf("done; products=%d templates=%d\n", createdProducts, createdTemplates)
}
