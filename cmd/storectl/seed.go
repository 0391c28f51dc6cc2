package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

// seedDocument es el formato del archivo de carga:
//
//	products:
//	  - sku: KTN-001
//	    name: Katun Jepang
//	    name_en: Japanese Cotton
//	    category: katun
//	    price_idr: 45000
//	    stock: 120
type seedDocument struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	SKU           string            `yaml:"sku"`
	Name          string            `yaml:"name"`
	NameEN        string            `yaml:"name_en"`
	Description   string            `yaml:"description"`
	DescriptionEN string            `yaml:"description_en"`
	Category      string            `yaml:"category"`
	Material      string            `yaml:"material"`
	Color         string            `yaml:"color"`
	Unit          string            `yaml:"unit"`
	PriceIDR      int64             `yaml:"price_idr"`
	Stock         int64             `yaml:"stock"`
	Images        []string          `yaml:"images"`
	Attributes    map[string]string `yaml:"attributes"`
	Inactive      bool              `yaml:"inactive"`
}

// parseSeed lee el YAML y rechaza SKUs repetidos dentro del mismo archivo
func parseSeed(r io.Reader) ([]models.Product, error) {
	var doc seedDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("file is empty")
		}
		return nil, err
	}
	if len(doc.Products) == 0 {
		return nil, errors.New("no products in file")
	}

	seen := make(map[string]int, len(doc.Products))
	products := make([]models.Product, 0, len(doc.Products))
	for i, p := range doc.Products {
		if p.SKU == "" {
			return nil, fmt.Errorf("product #%d: sku is required", i+1)
		}
		if prev, ok := seen[p.SKU]; ok {
			return nil, fmt.Errorf("product #%d: sku %s already used by product #%d", i+1, p.SKU, prev)
		}
		seen[p.SKU] = i + 1
		products = append(products, models.Product{
			SKU:           p.SKU,
			Name:          p.Name,
			NameEN:        p.NameEN,
			Description:   p.Description,
			DescriptionEN: p.DescriptionEN,
			Category:      p.Category,
			Material:      p.Material,
			Color:         p.Color,
			Unit:          p.Unit,
			PriceIDR:      p.PriceIDR,
			Stock:         p.Stock,
			Images:        p.Images,
			Attributes:    p.Attributes,
			IsActive:      !p.Inactive,
		})
	}
	return products, nil
}

type productCreator interface {
	Create(ctx context.Context, p *models.Product) error
}

type seedResult struct {
	Created int
	Skipped int
}

// seedProducts crea cada producto; los SKU existentes se saltan
func seedProducts(ctx context.Context, catalog productCreator, products []models.Product) (seedResult, error) {
	var res seedResult
	for i := range products {
		p := &products[i]
		err := catalog.Create(ctx, p)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, apperr.ErrConflict):
			res.Skipped++
			log.Info("sku already exists, skipping", zap.String("sku", p.SKU))
		default:
			return res, fmt.Errorf("product %s: %w", p.SKU, err)
		}
	}
	return res, nil
}
